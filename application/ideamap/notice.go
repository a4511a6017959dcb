package ideamap

import "time"

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// DefaultNoticeTTL is how long a success notice stays up.
const DefaultNoticeTTL = 3 * time.Second

// Notice is a message shown to the person editing. Success notices expire on
// their own; error notices stay until dismissed.
type Notice struct {
	ID        int        `json:"id"`
	Kind      NoticeKind `json:"kind"`
	Message   string     `json:"message"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func (n Notice) expired(now time.Time) bool {
	return n.ExpiresAt != nil && !now.Before(*n.ExpiresAt)
}

// post appends a notice. Callers hold s.mu.
func (s *Session) post(kind NoticeKind, msg string) Notice {
	now := s.clock()
	s.noticeSeq++
	n := Notice{ID: s.noticeSeq, Kind: kind, Message: msg, CreatedAt: now}
	if kind == NoticeSuccess {
		exp := now.Add(s.noticeTTL)
		n.ExpiresAt = &exp
	}
	s.notices = append(s.notices, n)
	return n
}

// pruneNotices drops expired notices. Callers hold s.mu.
func (s *Session) pruneNotices() {
	now := s.clock()
	kept := s.notices[:0]
	for _, n := range s.notices {
		if !n.expired(now) {
			kept = append(kept, n)
		}
	}
	s.notices = kept
}

// Notices returns the notices still showing.
func (s *Session) Notices() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneNotices()
	return append([]Notice(nil), s.notices...)
}

// DismissNotice removes a notice. It reports whether the notice was showing.
func (s *Session) DismissNotice(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, n := range s.notices {
		if n.ID == id {
			s.notices = append(s.notices[:i], s.notices[i+1:]...)
			return true
		}
	}
	return false
}
