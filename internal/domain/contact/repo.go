package contact

import "context"

type Repository interface {
	Create(ctx context.Context, m *Message) error
}
