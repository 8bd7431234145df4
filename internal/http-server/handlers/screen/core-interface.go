package screen

import (
	"SchoolDesk/entity"
	"SchoolDesk/internal/service/listing"
	"context"
)

type Core interface {
	Screen(ctx context.Context, session *entity.Session, resource string) (listing.Controller, error)
}
