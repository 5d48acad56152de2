package gameloop

// OnActivated is called when the window becomes the foreground window.
func (s *Session) OnActivated() {
	s.logger.Debug("gameloop: activated")
	call(s.opts.hooks.Activated)
}

// OnDeactivated is called when the window loses foreground status.
func (s *Session) OnDeactivated() {
	s.logger.Debug("gameloop: deactivated")
	call(s.opts.hooks.Deactivated)
}

// OnSuspending is called when the application is about to be suspended.
func (s *Session) OnSuspending() {
	s.logger.Debug("gameloop: suspending")
	call(s.opts.hooks.Suspending)
}

// OnResuming is called when the application resumes. The timer's elapsed
// time is reset so the suspended interval is not fed into the next step.
func (s *Session) OnResuming() {
	s.logger.Debug("gameloop: resuming")
	s.timer.ResetElapsedTime()
	call(s.opts.hooks.Resuming)
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}
