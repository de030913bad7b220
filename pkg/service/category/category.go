// Package category manages the global and user owned categories that label
// transactions.
package category

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/category"
	"github.com/amirasaad/ledger/pkg/guard"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/google/uuid"
)

// Default is a global category installed by SeedGlobal.
type Default struct {
	Name string
	Type category.Type
}

// Defaults is the global category set every ledger starts with.
var Defaults = []Default{
	{"Salary", category.TypeIncome},
	{"Freelance", category.TypeIncome},
	{"Investments", category.TypeIncome},
	{"Gifts", category.TypeIncome},
	{"Food & Dining", category.TypeExpense},
	{"Rent", category.TypeExpense},
	{"Utilities", category.TypeExpense},
	{"Transport", category.TypeExpense},
	{"Shopping", category.TypeExpense},
	{"Healthcare", category.TypeExpense},
	{"Entertainment", category.TypeExpense},
	{"Education", category.TypeExpense},
}

type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// List returns the global categories plus actor's own, optionally by type.
func (s *Service) List(ctx context.Context, actor uuid.UUID, t *category.Type) (cats []*category.Category, err error) {
	if t != nil && !t.Valid() {
		return nil, domain.NewValidationError("type", "category type must be INCOME or EXPENSE")
	}
	err = s.uow.View(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CategoryRepository()
		if err != nil {
			return err
		}
		if t != nil {
			cats, err = repo.ListVisibleByType(ctx, actor, *t)
		} else {
			cats, err = repo.ListVisible(ctx, actor)
		}
		return err
	})
	return
}

// Get returns a category visible to actor.
func (s *Service) Get(ctx context.Context, actor, id uuid.UUID) (c *category.Category, err error) {
	err = s.uow.View(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CategoryRepository()
		if err != nil {
			return err
		}
		c, err = repo.Get(ctx, id)
		if err != nil {
			return err
		}
		return guard.AuthorizeScope(domain.ResourceCategory, id, c.Scope, actor)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Create adds a category owned by actor. (name, type) is unique per owner.
func (s *Service) Create(ctx context.Context, actor uuid.UUID, name string, t category.Type) (c *category.Category, err error) {
	log := s.logger.With("context", "CreateCategory", "userID", actor)
	c, err = category.New(name, t, category.Owned(actor))
	if err != nil {
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CategoryRepository()
		if err != nil {
			return err
		}
		if err := ensureUnique(ctx, repo, c, uuid.Nil); err != nil {
			return err
		}
		return repo.Create(ctx, c)
	})
	if err != nil {
		log.Error("failed to create category", "error", err)
		return nil, err
	}
	log.Info("category created", "categoryID", c.ID)
	return c, nil
}

// Rename changes the name of one of actor's categories.
func (s *Service) Rename(ctx context.Context, actor, id uuid.UUID, name string) (c *category.Category, err error) {
	log := s.logger.With("context", "RenameCategory", "userID", actor, "categoryID", id)
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CategoryRepository()
		if err != nil {
			return err
		}
		c, err = repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := guard.AuthorizeMutation(domain.ResourceCategory, id, c.Scope, actor); err != nil {
			return err
		}
		if err := c.Rename(name); err != nil {
			return err
		}
		if err := ensureUnique(ctx, repo, c, c.ID); err != nil {
			return err
		}
		return repo.Update(ctx, c)
	})
	if err != nil {
		log.Error("failed to rename category", "error", err)
		return nil, err
	}
	return c, nil
}

// Delete removes one of actor's categories. Global categories can never be
// deleted and categories referenced by a transaction are kept.
func (s *Service) Delete(ctx context.Context, actor, id uuid.UUID) error {
	log := s.logger.With("context", "DeleteCategory", "userID", actor, "categoryID", id)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CategoryRepository()
		if err != nil {
			return err
		}
		txs, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		c, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := guard.AuthorizeMutation(domain.ResourceCategory, id, c.Scope, actor); err != nil {
			return err
		}
		inUse, err := txs.ExistsByCategory(ctx, id)
		if err != nil {
			return err
		}
		if inUse {
			return domain.NewConflictError(domain.ResourceCategory, "category", "cannot delete category with existing transactions")
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		log.Error("failed to delete category", "error", err)
		return err
	}
	log.Info("category deleted")
	return nil
}

// SeedGlobal installs the missing entries of defaults as global categories
// and returns how many were created.
func (s *Service) SeedGlobal(ctx context.Context, defaults []Default) (created int, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CategoryRepository()
		if err != nil {
			return err
		}
		for _, d := range defaults {
			c, err := category.New(d.Name, d.Type, category.Global())
			if err != nil {
				return err
			}
			exists, err := repo.Exists(ctx, c.Name, c.Type, c.Scope, uuid.Nil)
			if err != nil {
				return err
			}
			if exists {
				continue
			}
			if err := repo.Create(ctx, c); err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("global categories seeded", "created", created)
	return created, nil
}

func ensureUnique(ctx context.Context, repo repository.CategoryRepository, c *category.Category, exclude uuid.UUID) error {
	taken, err := repo.Exists(ctx, c.Name, c.Type, c.Scope, exclude)
	if err != nil {
		return err
	}
	if taken {
		return domain.NewConflictError(
			domain.ResourceCategory,
			"name",
			fmt.Sprintf("you already have a %s category named '%s'", c.Type, c.Name),
		)
	}
	return nil
}
