package projection

import (
	"notify-lab/domain"
	"notify-lab/domain/event"

	"github.com/samber/lo"
)

// Roster derives the set of present identities from joined and left events.
// Presence is keyed on id; display names may collide.
type Roster struct {
	users map[string]domain.User
	order []string
}

func NewRoster() *Roster {
	return &Roster{users: make(map[string]domain.User)}
}

func (r *Roster) Consume(e event.Event) {
	switch evt := e.(type) {
	case event.UserJoined:
		if _, ok := r.users[evt.ID]; !ok {
			r.order = append(r.order, evt.ID)
		}
		r.users[evt.ID] = evt.User
	case event.UserLeft:
		delete(r.users, evt.ID)
		r.order = lo.Without(r.order, evt.ID)
	}
}

// Present lists the connected users in join order.
func (r *Roster) Present() []domain.User {
	return lo.FilterMap(r.order, func(id string, _ int) (domain.User, bool) {
		user, ok := r.users[id]
		return user, ok
	})
}
