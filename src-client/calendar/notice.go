package calendar

type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeError
)

// Notice is a message meant for the person using the calendar.
type Notice struct {
	Level   NoticeLevel
	Message string
}

type Notifier func(Notice)
