package session

import (
	"github.com/marianozunino/uploadpro/internal/model"
	"github.com/marianozunino/uploadpro/internal/upload"
)

// Countdown is the timer gating the pre-download and download pages
type Countdown struct {
	Page      model.Page
	Total     int
	Remaining int
	Ready     bool
}

// Percent is the elapsed share of the countdown
func (c Countdown) Percent() int {
	if c.Total <= 0 {
		return 100
	}
	return (c.Total - c.Remaining) * 100 / c.Total
}

func (s *Session) startCountdown() {
	s.cancelCountdown()
	if !s.uploaded() {
		return
	}

	st := s.deps.Settings.Settings()
	total := st.CountdownDuration
	if s.page == model.PagePreDownload {
		total = st.PreDownloadDelay
	}
	s.countdown = Countdown{Page: s.page, Total: total, Remaining: max(total, 0)}
	if s.countdown.Remaining == 0 {
		s.countdownEnded()
		return
	}

	s.countTok = s.sched.Every(countdownTick, func() {
		s.countdown.Remaining--
		s.changed()
		if s.countdown.Remaining > 0 {
			return
		}
		s.countTok.Cancel()
		s.countTok = nil
		s.countdownEnded()
	})
}

// uploaded reports whether the pipeline holds files of a finished upload
func (s *Session) uploaded() bool {
	return s.pipeline.Status() == upload.StatusSuccess && s.pipeline.Count() > 0
}

func (s *Session) countdownEnded() {
	switch s.countdown.Page {
	case model.PagePreDownload:
		s.navigate(model.PageDownload)
	case model.PageDownload:
		s.countdown.Ready = true
		s.changed()
	}
}

func (s *Session) cancelCountdown() {
	s.countTok.Cancel()
	s.countTok = nil
	s.countdown = Countdown{}
}

// SettingsChanged restarts a running countdown whose duration was edited
func (s *Session) SettingsChanged(old, updated model.SiteSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()

	restart := (s.page == model.PagePreDownload && old.PreDownloadDelay != updated.PreDownloadDelay) ||
		(s.page == model.PageDownload && old.CountdownDuration != updated.CountdownDuration)
	if restart {
		s.startCountdown()
	}
	s.changed()
}
