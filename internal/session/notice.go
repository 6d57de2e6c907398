package session

// NoticeCode identifies a user-visible notice raised by the session.
type NoticeCode string

const (
	NoticeAnswerTooShort  NoticeCode = "answer_too_short"
	NoticeScoreDegraded   NoticeCode = "score_degraded"
	NoticeAlreadyAnswered NoticeCode = "already_answered"
	NoticeSaveFailed      NoticeCode = "save_failed"
)

// Notice is a user-facing message produced instead of an error state. The
// degraded-score notice in particular is deliberate: a sentinel evaluation
// must be distinguishable from a genuine low score.
type Notice struct {
	Code    NoticeCode `json:"code"`
	Message string     `json:"message"`
}

// DrainNotices returns and clears the accumulated notices in arrival order.
func (s *Session) DrainNotices() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	notices := s.notices
	s.notices = nil
	return notices
}

func (s *Session) pushNoticeLocked(code NoticeCode, message string) {
	s.notices = append(s.notices, Notice{Code: code, Message: message})
}
