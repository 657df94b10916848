package route

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"eventcal/src-server/utils"
)

// SPA serves the browser client, unknown paths fall back to index.html.
func SPA(muxer *http.ServeMux, as *utils.AppState) {
	dir := as.Config.GetStaticWebClientDir()
	if dir == "" {
		slog.Info("STATIC_WEB_CLIENT_DIR is not set, not serving the web client")
		return
	}

	files := http.FS(os.DirFS(dir))
	indexFile, err := files.Open("index.html")
	if err != nil {
		slog.Error("can't open index.html", "dir", dir, "error", err)
		return
	}
	indexFile.Close()

	muxer.HandleFunc("GET /{filepath...}", func(w http.ResponseWriter, r *http.Request) {
		name := filepath.Clean(r.PathValue("filepath"))
		if name == "." {
			name = "index.html"
		}

		open := func(name string) (http.File, os.FileInfo, bool) {
			file, err := files.Open(name)
			if err != nil {
				return nil, nil, false
			}
			stat, err := file.Stat()
			if err != nil {
				file.Close()
				return nil, nil, false
			}
			if stat.IsDir() {
				file.Close()
				return nil, nil, false
			}
			return file, stat, true
		}

		file, stat, ok := open(name)
		if !ok {
			file, stat, ok = open(filepath.Join(name, "index.html"))
		}
		if !ok {
			file, stat, ok = open("index.html")
		}
		if !ok {
			http.Error(w, "index.html not found", http.StatusNotFound)
			return
		}
		defer file.Close()

		http.ServeContent(w, r, stat.Name(), stat.ModTime(), file)
	})
}
