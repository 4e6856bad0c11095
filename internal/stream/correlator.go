package stream

import (
	"container/list"
	"log"

	lru "github.com/hashicorp/golang-lru/v2"
)

// matchWindow is the number of seconds within which a Suspect and a Success
// for the same user are considered a match, in either temporal order.
const matchWindow = 60.0

// DefaultCorrelatorUsers bounds how many distinct usernames the Correlator
// tracks pending state for at once. Per-user suspect/login lists would
// otherwise grow without bound over a long-running input with many
// distinct usernames; an LRU cache of this size makes that bound concrete.
const DefaultCorrelatorUsers = 8192

// userState holds one user's pending, unmatched Suspect and Success
// tuples. Both lists are deques: appended at the tail as new tuples arrive,
// scanned and purged from the head.
type userState struct {
	suspects *list.List // of Suspect, ascending by Last
	logins   *list.List // of Success, ascending by Time
}

func newUserState() *userState {
	return &userState{suspects: list.New(), logins: list.New()}
}

// Correlator is the two-input stream join that matches a Suspect(user,
// rhost, last) with a Success(user, time) whenever |time - last| <= 60s,
// regardless of which arrives first, and emits a Breakin for the earliest
// unmatched candidate on the other side.
//
// Per-user state lives behind an LRU cache rather than a plain map, so a
// long-running pipeline over many distinct usernames has a hard memory
// ceiling; eviction drops that user's pending state and logs a [WARN].
type Correlator struct {
	users *lru.Cache[string, *userState]
}

// NewCorrelator constructs a Correlator bounded to maxUsers distinct
// usernames of pending state.
func NewCorrelator(maxUsers int) *Correlator {
	if maxUsers < 1 {
		maxUsers = DefaultCorrelatorUsers
	}
	cache, err := lru.NewWithEvict[string, *userState](maxUsers, func(user string, _ *userState) {
		log.Printf("[WARN] correlator: evicting pending state for user %q (LRU capacity reached)", user)
	})
	if err != nil {
		// Only returned for a non-positive size, which NewCorrelator already
		// guards against.
		panic(err)
	}
	return &Correlator{users: cache}
}

func (c *Correlator) state(user string) *userState {
	if st, ok := c.users.Get(user); ok {
		return st
	}
	st := newUserState()
	c.users.Add(user, st)
	return st
}

// OnSuspect processes one Suspect arrival and returns the Breakin it
// triggers, if any. A Suspect carrying the empty-user sentinel is a no-op:
// it is never stored and never matched.
func (c *Correlator) OnSuspect(s Suspect) (Breakin, bool) {
	if s.User == "" {
		return Breakin{}, false
	}
	st := c.state(s.User)

	e := st.logins.Front()
	staleThrough := (*list.Element)(nil)
	for e != nil {
		success := e.Value.(Success)
		diff := success.Time.Sub(s.Last).Seconds()
		switch {
		case diff < -matchWindow:
			// success.Time more than 60s before s.Last: as future suspects
			// for this user only ever carry a non-decreasing Last, this gap
			// can only widen. Permanently unmatchable, safe to purge.
			staleThrough = e
			e = e.Next()
		case diff <= matchWindow:
			// -60 <= diff <= 60: within the match window.
			st.logins.Remove(e)
			purgeThrough(st.logins, staleThrough)
			return Breakin{Time: success.Time, RHost: s.RHost, User: s.User}, true
		default:
			// diff > 60: success.Time is far ahead of s.Last. A larger
			// future suspect's Last could still close that gap, so this
			// entry is not yet provably stale, stop scanning.
			e = nil
		}
	}
	purgeThrough(st.logins, staleThrough)

	st.suspects.PushBack(s)
	return Breakin{}, false
}

// OnSuccess processes one Success arrival and returns the Breakin it
// triggers, if any.
func (c *Correlator) OnSuccess(l Success) (Breakin, bool) {
	st := c.state(l.User)

	e := st.suspects.Front()
	staleThrough := (*list.Element)(nil)
	for e != nil {
		suspect := e.Value.(Suspect)
		diff := l.Time.Sub(suspect.Last).Seconds()
		switch {
		case diff > matchWindow:
			// l.Time more than 60s after suspect.Last: future successes
			// for this user only ever carry non-decreasing Time, so this
			// gap can only widen. Permanently unmatchable, safe to purge.
			staleThrough = e
			e = e.Next()
		case diff >= -matchWindow:
			st.suspects.Remove(e)
			purgeThrough(st.suspects, staleThrough)
			return Breakin{Time: l.Time, RHost: suspect.RHost, User: l.User}, true
		default:
			// diff < -60: suspect.Last is far ahead of l.Time. A later,
			// larger suspect isn't the issue here; a future success with
			// greater Time could still close the gap, so stop scanning
			// without purging.
			e = nil
		}
	}
	purgeThrough(st.suspects, staleThrough)

	st.logins.PushBack(l)
	return Breakin{}, false
}

// purgeThrough removes every element from the front of lst up to and
// including through, if through is non-nil.
func purgeThrough(lst *list.List, through *list.Element) {
	if through == nil {
		return
	}
	for e := lst.Front(); e != nil; {
		next := e.Next()
		lst.Remove(e)
		if e == through {
			return
		}
		e = next
	}
}

// Run drives the Correlator as a single consumer task selecting between two
// input channels, so the per-tuple handlers never run concurrently against
// shared state. breakins is closed once both suspects and successes are
// exhausted.
func (c *Correlator) Run(suspects <-chan Suspect, successes <-chan Success, breakins chan<- Breakin) {
	defer close(breakins)

	for suspects != nil || successes != nil {
		select {
		case s, ok := <-suspects:
			if !ok {
				suspects = nil
				continue
			}
			if b, matched := c.OnSuspect(s); matched {
				breakins <- b
			}
		case l, ok := <-successes:
			if !ok {
				successes = nil
				continue
			}
			if b, matched := c.OnSuccess(l); matched {
				breakins <- b
			}
		}
	}
}
