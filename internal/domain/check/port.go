package check

import "context"

type Repo interface {
	Read(ctx context.Context, id string) (Raw, error)
	Update(ctx context.Context, c *Check) error
	List(ctx context.Context) ([]string, error)
}
