package state

import tele "gopkg.in/telebot.v4"

const sessionKey = "fsm_session"

func stashSession(c tele.Context, sess *Session) {
	if c == nil || sess == nil {
		return
	}
	c.Set(sessionKey, sess)
}

// SessionFrom returns the session stashed by Dispatch for the current update.
func SessionFrom(c tele.Context) (*Session, bool) {
	if c == nil {
		return nil, false
	}
	if v := c.Get(sessionKey); v != nil {
		if sess, ok := v.(*Session); ok {
			return sess, true
		}
	}
	return nil, false
}
