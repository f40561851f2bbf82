// Package memory provides an in-process repository.Store used for development and tests.
package memory

import (
	"context"
	"sync"

	"github.com/helpline-ops/support-desk/internal/domain"
	"github.com/helpline-ops/support-desk/internal/repository"
)

type state struct {
	tickets           map[string]domain.Ticket
	ticketOrder       []string
	users             map[string]domain.User
	errorTypes        map[string]domain.ErrorType
	automatedMessages map[string]domain.AutomatedMessage
	messageOrder      []string
	system            []domain.SystemNotification
	admin             []domain.AdminNotification
	audit             []domain.AuditLog
	feedback          []domain.Feedback
}

func newState() *state {
	return &state{
		tickets:           map[string]domain.Ticket{},
		users:             map[string]domain.User{},
		errorTypes:        map[string]domain.ErrorType{},
		automatedMessages: map[string]domain.AutomatedMessage{},
	}
}

func (s *state) clone() *state {
	c := &state{
		tickets:           make(map[string]domain.Ticket, len(s.tickets)),
		ticketOrder:       append([]string(nil), s.ticketOrder...),
		users:             make(map[string]domain.User, len(s.users)),
		errorTypes:        make(map[string]domain.ErrorType, len(s.errorTypes)),
		automatedMessages: make(map[string]domain.AutomatedMessage, len(s.automatedMessages)),
		messageOrder:      append([]string(nil), s.messageOrder...),
		system:            append([]domain.SystemNotification(nil), s.system...),
		admin:             append([]domain.AdminNotification(nil), s.admin...),
		audit:             append([]domain.AuditLog(nil), s.audit...),
		feedback:          append([]domain.Feedback(nil), s.feedback...),
	}
	for k, v := range s.tickets {
		c.tickets[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.errorTypes {
		c.errorTypes[k] = v
	}
	for k, v := range s.automatedMessages {
		c.automatedMessages[k] = v
	}
	return c
}

// Store is a mutex-guarded in-memory repository.Store.
type Store struct {
	txMu *sync.Mutex
	mu   sync.RWMutex
	st   *state
	view bool
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{txMu: &sync.Mutex{}, st: newState()}
}

var _ repository.Store = (*Store)(nil)

func (s *Store) Tickets() repository.TicketRepository { return &ticketRepo{s: s} }
func (s *Store) Users() repository.UserRepository     { return &userRepo{s: s} }
func (s *Store) ErrorTypes() repository.ErrorTypeRepository {
	return &errorTypeRepo{s: s}
}
func (s *Store) AutomatedMessages() repository.AutomatedMessageRepository {
	return &automatedMessageRepo{s: s}
}
func (s *Store) SystemNotifications() repository.SystemNotificationRepository {
	return &systemNotificationRepo{s: s}
}
func (s *Store) AdminNotifications() repository.AdminNotificationRepository {
	return &adminNotificationRepo{s: s}
}
func (s *Store) AuditLogs() repository.AuditLogRepository { return &auditLogRepo{s: s} }
func (s *Store) Feedback() repository.FeedbackRepository  { return &feedbackRepo{s: s} }

// WithinTx runs fn against a private copy of the state and publishes it only when fn succeeds.
// Transactions are serialized with every other write on the store.
func (s *Store) WithinTx(_ context.Context, fn func(repository.Store) error) error {
	if s.view {
		return fn(s)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	staged := &Store{txMu: s.txMu, st: s.st.clone(), view: true}
	s.mu.RUnlock()

	if err := fn(staged); err != nil {
		return err
	}

	s.mu.Lock()
	s.st = staged.st
	s.mu.Unlock()
	return nil
}

func (s *Store) read(fn func(st *state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.st)
}

func (s *Store) write(fn func(st *state) error) error {
	if !s.view {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}
