package access

import (
	"context"

	"comptroller/core"

	"github.com/asaskevich/govalidator"
	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
)

type accessService struct {
	txer   core.Txer
	system *core.System
	store  core.IAllowListStore
}

// New new access service
func New(txer core.Txer, system *core.System, store core.IAllowListStore) core.IAccessService {
	return &accessService{
		txer:   txer,
		system: system,
		store:  store,
	}
}

func (s *accessService) Allowed(ctx context.Context, caller, scope string) bool {
	if s.system.IsAdmin(caller) {
		return true
	}

	entry, err := s.store.Find(ctx, caller)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("allowlist.Find")
		return false
	}

	return govalidator.IsIn(scope, entry.Scopes...)
}

func (s *accessService) Grant(ctx context.Context, userID string, scopes []string) error {
	entry, err := s.store.Find(ctx, userID)
	if err != nil {
		return err
	}

	for _, scope := range scopes {
		if !govalidator.IsIn(scope, entry.Scopes...) {
			entry.Scopes = append(entry.Scopes, scope)
		}
	}

	return s.txer.Tx(func(tx *db.DB) error {
		return s.store.Save(ctx, tx, entry)
	})
}

func (s *accessService) Revoke(ctx context.Context, userID string) error {
	return s.txer.Tx(func(tx *db.DB) error {
		return s.store.Delete(ctx, tx, userID)
	})
}
