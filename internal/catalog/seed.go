package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/helpline-ops/support-desk/internal/auth"
	"github.com/helpline-ops/support-desk/internal/domain"
	"github.com/helpline-ops/support-desk/internal/repository"
)

// Seed is reference data loaded at startup: accounts, error types and automated messages.
type Seed struct {
	Users             []SeedUser             `yaml:"users"`
	ErrorTypes        []SeedErrorType        `yaml:"error_types"`
	AutomatedMessages []SeedAutomatedMessage `yaml:"automated_messages"`
}

type SeedUser struct {
	ID        string      `yaml:"id"`
	Name      string      `yaml:"name"`
	Email     string      `yaml:"email"`
	Password  string      `yaml:"password"`
	Role      domain.Role `yaml:"role"`
	Team      string      `yaml:"team"`
	ManagerID string      `yaml:"manager_id"`
}

type SeedErrorType struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type SeedAutomatedMessage struct {
	ID          string `yaml:"id"`
	ErrorTypeID string `yaml:"error_type_id"`
	Message     string `yaml:"message"`
}

// ApplyResult counts inserted and already-present records.
type ApplyResult struct {
	Inserted int
	Skipped  int
}

// LoadFile reads and validates a seed file.
func LoadFile(path string) (*Seed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and validates seed YAML. Unknown keys are rejected.
func Parse(raw []byte) (*Seed, error) {
	var seed Seed
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	if err := seed.validate(); err != nil {
		return nil, err
	}
	return &seed, nil
}

func (s *Seed) validate() error {
	var errs []error
	types := map[string]struct{}{}
	for i, et := range s.ErrorTypes {
		if et.ID == "" || strings.TrimSpace(et.Name) == "" {
			errs = append(errs, fmt.Errorf("error_types[%d]: id and name required", i))
		}
		types[et.ID] = struct{}{}
	}
	for i, msg := range s.AutomatedMessages {
		if msg.ID == "" || strings.TrimSpace(msg.Message) == "" {
			errs = append(errs, fmt.Errorf("automated_messages[%d]: id and message required", i))
		}
		if _, ok := types[msg.ErrorTypeID]; !ok {
			errs = append(errs, fmt.Errorf("automated_messages[%d]: unknown error_type_id %q", i, msg.ErrorTypeID))
		}
	}
	for i, u := range s.Users {
		if u.ID == "" || u.Email == "" || u.Password == "" {
			errs = append(errs, fmt.Errorf("users[%d]: id, email and password required", i))
		}
		if !u.Role.Valid() {
			errs = append(errs, fmt.Errorf("users[%d]: invalid role %q", i, u.Role))
		}
	}
	return errors.Join(errs...)
}

// Apply inserts records that do not exist yet, matched by id. Existing rows are never
// overwritten, so edits made through the admin API survive restarts.
func (s *Seed) Apply(ctx context.Context, store repository.Store, bcryptCost int, logger *zap.Logger) (ApplyResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var result ApplyResult
	now := time.Now()
	err := store.WithinTx(ctx, func(tx repository.Store) error {
		for _, et := range s.ErrorTypes {
			inserted, err := insertIfMissing(ctx, func(ctx context.Context) error {
				_, err := tx.ErrorTypes().GetByID(ctx, et.ID)
				return err
			}, func(ctx context.Context) error {
				return tx.ErrorTypes().Create(ctx, &domain.ErrorType{
					ID: et.ID, Name: strings.TrimSpace(et.Name), Description: et.Description, CreatedAt: now, UpdatedAt: now,
				})
			})
			if err != nil {
				return fmt.Errorf("error type %s: %w", et.ID, err)
			}
			result.count(inserted)
		}
		for _, msg := range s.AutomatedMessages {
			inserted, err := insertIfMissing(ctx, func(ctx context.Context) error {
				_, err := tx.AutomatedMessages().GetByID(ctx, msg.ID)
				return err
			}, func(ctx context.Context) error {
				return tx.AutomatedMessages().Create(ctx, &domain.AutomatedMessage{
					ID: msg.ID, ErrorTypeID: msg.ErrorTypeID, Message: strings.TrimSpace(msg.Message), CreatedAt: now, UpdatedAt: now,
				})
			})
			if err != nil {
				return fmt.Errorf("automated message %s: %w", msg.ID, err)
			}
			result.count(inserted)
		}
		for _, u := range s.Users {
			inserted, err := insertIfMissing(ctx, func(ctx context.Context) error {
				_, err := tx.Users().GetByID(ctx, u.ID)
				return err
			}, func(ctx context.Context) error {
				hash, err := auth.HashPassword(u.Password, bcryptCost)
				if err != nil {
					return err
				}
				return tx.Users().Create(ctx, &domain.User{
					ID:           u.ID,
					Name:         u.Name,
					Email:        u.Email,
					PasswordHash: hash,
					Role:         u.Role,
					Team:         optional(u.Team),
					ManagerID:    optional(u.ManagerID),
					CreatedAt:    now,
					UpdatedAt:    now,
				})
			})
			if err != nil {
				return fmt.Errorf("user %s: %w", u.ID, err)
			}
			result.count(inserted)
		}
		return nil
	})
	if err != nil {
		return ApplyResult{}, err
	}
	logger.Info("catalog seed applied", zap.Int("inserted", result.Inserted), zap.Int("skipped", result.Skipped))
	return result, nil
}

func insertIfMissing(ctx context.Context, lookup, create func(context.Context) error) (bool, error) {
	err := lookup(ctx)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}
	return true, create(ctx)
}

func (r *ApplyResult) count(inserted bool) {
	if inserted {
		r.Inserted++
	} else {
		r.Skipped++
	}
}

func optional(val string) *string {
	val = strings.TrimSpace(val)
	if val == "" {
		return nil
	}
	return &val
}
