package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/helpline-ops/support-desk/internal/domain"
	"github.com/helpline-ops/support-desk/internal/events"
	"github.com/helpline-ops/support-desk/internal/repository"
	"github.com/helpline-ops/support-desk/internal/repository/memory"
	apperrors "github.com/helpline-ops/support-desk/pkg/util/errorutil"
)

const loginResetMessage = "Please reset your password from the self-service portal."

type fixture struct {
	store    *memory.Store
	svc      *TicketService
	events   *recordedEvents
	clock    *fakeClock
	rep      *domain.User
	peer     *domain.User
	admin    *domain.User
	manager  *domain.User
	areaMgr  *domain.User
	login    *domain.ErrorType
	email    *domain.ErrorType
	printing *domain.ErrorType
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordedEvents struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordedEvents) handle(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordedEvents) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func strPtr(s string) *string { return &s }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	clock := &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}

	f := &fixture{store: store, clock: clock, events: &recordedEvents{}}
	f.areaMgr = &domain.User{ID: "area-1", Name: "Alma Area", Email: "area@example.com", Role: domain.RoleAreaManager, Team: strPtr("North")}
	f.manager = &domain.User{ID: "mgr-1", Name: "Mona Manager", Email: "mgr@example.com", Role: domain.RoleBranchManager, Team: strPtr("North-1"), ManagerID: strPtr("area-1")}
	f.rep = &domain.User{ID: "rep-1", Name: "Rita Rep", Email: "rita@example.com", Role: domain.RoleRepresentative, Team: strPtr("North-1"), ManagerID: strPtr("mgr-1")}
	f.peer = &domain.User{ID: "rep-2", Name: "Pete Rep", Email: "pete@example.com", Role: domain.RoleRepresentative, Team: strPtr("South-1")}
	f.admin = &domain.User{ID: "adm-1", Name: "Ada Admin", Email: "ada@example.com", Role: domain.RoleAdmin, Team: strPtr("HQ")}
	for _, u := range []*domain.User{f.areaMgr, f.manager, f.rep, f.peer, f.admin} {
		if err := store.Users().Create(ctx, u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	f.login = &domain.ErrorType{ID: "et-4", Name: "Login"}
	f.email = &domain.ErrorType{ID: "et-5", Name: "Email"}
	f.printing = &domain.ErrorType{ID: "et-6", Name: "Printer"}
	for _, et := range []*domain.ErrorType{f.login, f.email, f.printing} {
		if err := store.ErrorTypes().Create(ctx, et); err != nil {
			t.Fatalf("seed error type: %v", err)
		}
	}
	if err := store.AutomatedMessages().Create(ctx, &domain.AutomatedMessage{ID: "am-1", ErrorTypeID: "et-4", Message: loginResetMessage}); err != nil {
		t.Fatalf("seed automated message: %v", err)
	}

	dispatcher := events.NewInMemoryDispatcher()
	dispatcher.Subscribe(events.EventTicketCreated, f.events.handle)
	dispatcher.Subscribe(events.EventTicketUpdated, f.events.handle)

	notifications := NewNotificationService(store, nil)
	notifications.nowFn = clock.Now
	audit := NewAuditService(store)
	audit.nowFn = clock.Now
	f.svc = NewTicketService(TicketDependencies{
		Store:         store,
		Dispatcher:    dispatcher,
		Notifications: notifications,
		Audit:         audit,
	})
	f.svc.nowFn = clock.Now
	return f
}

func (f *fixture) create(t *testing.T, actor Actor, uid, errorTypeID string) *domain.Ticket {
	t.Helper()
	ticket, err := f.svc.CreateTicket(context.Background(), actor, TicketDraft{
		UID:         uid,
		ErrorTypeID: errorTypeID,
		Description: "cannot sign in",
	})
	if err != nil {
		t.Fatalf("create ticket: %v", err)
	}
	return ticket
}

func (f *fixture) systemFor(t *testing.T, userID string) []domain.SystemNotification {
	t.Helper()
	rows, err := f.store.SystemNotifications().ListByUser(context.Background(), userID, false)
	if err != nil {
		t.Fatalf("list system notifications: %v", err)
	}
	return rows
}

func (f *fixture) adminFeed(t *testing.T) []domain.AdminNotification {
	t.Helper()
	rows, err := f.store.AdminNotifications().List(context.Background(), false)
	if err != nil {
		t.Fatalf("list admin notifications: %v", err)
	}
	return rows
}

func (f *fixture) trail(t *testing.T, ticketID string) []domain.AuditLog {
	t.Helper()
	rows, err := f.store.AuditLogs().ListByTicket(context.Background(), ticketID)
	if err != nil {
		t.Fatalf("list audit: %v", err)
	}
	return rows
}

func TestCreateWithoutAutomatedMessageStaysInProgress(t *testing.T) {
	f := newFixture(t)
	ticket := f.create(t, Actor{User: f.rep}, "UID100", "et-6")

	if ticket.Status != domain.TicketStatusInProgress {
		t.Fatalf("expected in progress, got %s", ticket.Status)
	}
	if ticket.Team != "North-1" || ticket.RepresentativeID != "rep-1" {
		t.Fatalf("unexpected ownership %+v", ticket)
	}
	if got := len(f.adminFeed(t)); got != 1 {
		t.Fatalf("expected one admin notification, got %d", got)
	}
	if got := len(f.systemFor(t, "rep-1")); got != 0 {
		t.Fatalf("expected no system notification, got %d", got)
	}
	trail := f.trail(t, ticket.ID)
	if len(trail) != 1 || trail[0].Action != domain.AuditActionCreate || trail[0].UserID != "rep-1" {
		t.Fatalf("unexpected audit trail %+v", trail)
	}
	if !strings.Contains(trail[0].Detail, "UID100") {
		t.Fatalf("audit detail should name the uid: %q", trail[0].Detail)
	}
}

func TestCreateAutoClosesThenEscalatesResubmission(t *testing.T) {
	f := newFixture(t)

	first := f.create(t, Actor{User: f.rep}, "UID500", "et-4")
	if first.Status != domain.TicketStatusClosed {
		t.Fatalf("expected first ticket closed, got %s", first.Status)
	}
	system := f.systemFor(t, "rep-1")
	if len(system) != 1 || system[0].Message != loginResetMessage {
		t.Fatalf("expected automated message notification, got %+v", system)
	}

	f.clock.Advance(time.Hour)
	second := f.create(t, Actor{User: f.rep}, "UID500", "et-4")
	if second.Status != domain.TicketStatusEscalated {
		t.Fatalf("expected resubmission escalated, got %s", second.Status)
	}

	admin := f.adminFeed(t)
	if len(admin) != 2 {
		t.Fatalf("expected one admin notification per ticket, got %d", len(admin))
	}
	if admin[0].TicketID != second.ID || !strings.Contains(admin[0].Message, "re-submitted") {
		t.Fatalf("expected newest admin notification to flag the resubmission, got %+v", admin[0])
	}
	system = f.systemFor(t, "rep-1")
	if len(system) != 2 || system[0].TicketID != second.ID {
		t.Fatalf("expected escalation notice first, got %+v", system)
	}

	other := f.create(t, Actor{User: f.rep}, "UID501", "et-4")
	if other.Status != domain.TicketStatusClosed {
		t.Fatalf("different uid must not escalate, got %s", other.Status)
	}

	if got := f.events.types(); len(got) != 3 || got[0] != events.EventTicketCreated {
		t.Fatalf("expected three created events, got %v", got)
	}
}

func TestCreateRejectsMissingSessionAndTeam(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateTicket(ctx, Actor{}, TicketDraft{UID: "U1", ErrorTypeID: "et-6", Description: "x"})
	if !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("expected session invalid, got %v", err)
	}

	noTeam := &domain.User{ID: "rep-9", Name: "No Team", Email: "nt@example.com", Role: domain.RoleRepresentative}
	_, err = f.svc.CreateTicket(ctx, Actor{User: noTeam}, TicketDraft{UID: "U1", ErrorTypeID: "et-6", Description: "x"})
	if !errors.Is(err, ErrTeamUnresolved) {
		t.Fatalf("expected team unresolved, got %v", err)
	}

	tickets, _ := f.store.Tickets().List(ctx, repository.TicketFilter{})
	if len(tickets) != 0 {
		t.Fatalf("rejected creates must not write, got %d tickets", len(tickets))
	}
}

func TestCreateUsesSessionTeamForRepresentatives(t *testing.T) {
	f := newFixture(t)
	ticket := f.create(t, Actor{User: f.rep, Team: "North-2"}, "UID1", "et-6")
	if ticket.Team != "North-2" {
		t.Fatalf("expected session team, got %s", ticket.Team)
	}
	managerTicket := f.create(t, Actor{User: f.manager, Team: "Elsewhere"}, "UID2", "et-6")
	if managerTicket.Team != "North-1" {
		t.Fatalf("managers file under their profile team, got %s", managerTicket.Team)
	}
}

func TestCreateValidatesDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	actor := Actor{User: f.rep}

	cases := []struct {
		name  string
		draft TicketDraft
		code  string
	}{
		{"missing uid", TicketDraft{ErrorTypeID: "et-6", Description: "x"}, "VALIDATION_FAILED"},
		{"missing description", TicketDraft{UID: "U", ErrorTypeID: "et-6"}, "VALIDATION_FAILED"},
		{"unknown error type", TicketDraft{UID: "U", ErrorTypeID: "et-404", Description: "x"}, "NOT_FOUND"},
		{"email without subject", TicketDraft{UID: "U", ErrorTypeID: "et-5", Description: "x"}, "VALIDATION_FAILED"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreateTicket(ctx, actor, tc.draft)
			domainErr := apperrors.ToDomainError(err)
			if domainErr == nil || domainErr.Code != tc.code {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}

	ticket, err := f.svc.CreateTicket(ctx, actor, TicketDraft{UID: "U", ErrorTypeID: "et-5", Description: "bounce", Subject: strPtr(" Mail bounced ")})
	if err != nil {
		t.Fatalf("email ticket with subject: %v", err)
	}
	if ticket.Subject == nil || *ticket.Subject != "Mail bounced" {
		t.Fatalf("expected trimmed subject, got %v", ticket.Subject)
	}
}

func TestCreateOnBehalfRequiresReportingLine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ticket, err := f.svc.CreateTicket(ctx, Actor{User: f.areaMgr}, TicketDraft{UID: "U7", ErrorTypeID: "et-6", Description: "x", OwnerID: "rep-1"})
	if err != nil {
		t.Fatalf("area manager filing for indirect report: %v", err)
	}
	if ticket.RepresentativeID != "rep-1" || ticket.Team != "North" {
		t.Fatalf("unexpected ticket ownership %+v", ticket)
	}
	if trail := f.trail(t, ticket.ID); trail[0].UserID != "area-1" {
		t.Fatalf("audit should record the acting manager, got %s", trail[0].UserID)
	}

	_, err = f.svc.CreateTicket(ctx, Actor{User: f.manager}, TicketDraft{UID: "U7", ErrorTypeID: "et-6", Description: "x", OwnerID: "rep-2"})
	if de := apperrors.ToDomainError(err); de == nil || de.Code != "FORBIDDEN" {
		t.Fatalf("expected forbidden for non-report, got %v", err)
	}
	_, err = f.svc.CreateTicket(ctx, Actor{User: f.peer}, TicketDraft{UID: "U7", ErrorTypeID: "et-6", Description: "x", OwnerID: "rep-1"})
	if de := apperrors.ToDomainError(err); de == nil || de.Code != "FORBIDDEN" {
		t.Fatalf("expected forbidden for representative, got %v", err)
	}
}

func TestUpdateCompletedNotifiesOwnerWithComment(t *testing.T) {
	f := newFixture(t)
	ticket := f.create(t, Actor{User: f.rep}, "UID42", "et-6")
	f.clock.Advance(36 * time.Hour)

	status := domain.TicketStatusCompleted
	result, updated, err := f.svc.UpdateTicket(context.Background(), Actor{User: f.admin}, ticket.ID, domain.TicketPatch{
		Status:  &status,
		Comment: strPtr("fixed"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if result != UpdateApplied || updated.Status != domain.TicketStatusCompleted {
		t.Fatalf("unexpected result %s %+v", result, updated)
	}
	if !updated.UpdatedAt.Equal(ticket.CreatedAt.Add(36 * time.Hour)) {
		t.Fatalf("expected updated_at to move, got %v", updated.UpdatedAt)
	}

	system := f.systemFor(t, "rep-1")
	if len(system) != 1 || !strings.Contains(system[0].Message, "fixed") || !strings.Contains(system[0].Message, "Completed") {
		t.Fatalf("expected resolution notice with comment, got %+v", system)
	}
	if got := len(f.adminFeed(t)); got != 1 {
		t.Fatalf("resolution must not add admin notifications, got %d", got)
	}
	trail := f.trail(t, ticket.ID)
	if len(trail) != 2 || trail[1].Action != domain.AuditActionUpdate || trail[1].Detail != "Status changed to Completed" || trail[1].UserID != "adm-1" {
		t.Fatalf("unexpected audit trail %+v", trail)
	}

	kpi, err := f.svc.KPIs(context.Background(), Actor{User: f.admin}, KPIScopeGlobal)
	if err != nil {
		t.Fatalf("kpis: %v", err)
	}
	if kpi.ClosedCount != 1 || kpi.ActiveCount != 0 || kpi.AvgResolutionTime != "1.5 days" {
		t.Fatalf("unexpected kpi %+v", kpi)
	}
}

func TestUpdateResolutionWithoutCommentUsesPlaceholder(t *testing.T) {
	f := newFixture(t)
	ticket := f.create(t, Actor{User: f.rep}, "UID43", "et-6")

	status := domain.TicketStatusClosed
	if _, _, err := f.svc.UpdateTicket(context.Background(), Actor{User: f.admin}, ticket.ID, domain.TicketPatch{Status: &status}); err != nil {
		t.Fatalf("update: %v", err)
	}
	system := f.systemFor(t, "rep-1")
	if len(system) != 1 || !strings.Contains(system[0].Message, noResolutionComment) {
		t.Fatalf("expected placeholder resolution, got %+v", system)
	}
}

func TestUpdateEscalationNotifiesBothAudiences(t *testing.T) {
	f := newFixture(t)
	ticket := f.create(t, Actor{User: f.rep}, "UID44", "et-6")

	status := domain.TicketStatusEscalated
	if _, _, err := f.svc.UpdateTicket(context.Background(), Actor{User: f.admin}, ticket.ID, domain.TicketPatch{Status: &status}); err != nil {
		t.Fatalf("update: %v", err)
	}
	admin := f.adminFeed(t)
	if len(admin) != 2 || !strings.Contains(admin[0].Message, "Ada Admin") {
		t.Fatalf("expected escalation admin notice naming the actor, got %+v", admin)
	}
	if got := len(f.systemFor(t, "rep-1")); got != 1 {
		t.Fatalf("expected one owner notice, got %d", got)
	}

	// Already escalated: no further notices, still audited.
	if _, _, err := f.svc.UpdateTicket(context.Background(), Actor{User: f.admin}, ticket.ID, domain.TicketPatch{Status: &status}); err != nil {
		t.Fatalf("second update: %v", err)
	}
	if got := len(f.adminFeed(t)); got != 2 {
		t.Fatalf("expected no new admin notices, got %d", got)
	}
	if trail := f.trail(t, ticket.ID); len(trail) != 3 || trail[2].Detail != "Ticket details updated" {
		t.Fatalf("expected unchanged-status audit entry, got %+v", trail)
	}
}

func TestUpdateWithoutStatusChangeOnlyAudits(t *testing.T) {
	f := newFixture(t)
	ticket := f.create(t, Actor{User: f.rep}, "UID45", "et-6")

	result, updated, err := f.svc.UpdateTicket(context.Background(), Actor{User: f.admin}, ticket.ID, domain.TicketPatch{Description: strPtr("more detail")})
	if err != nil || result != UpdateApplied {
		t.Fatalf("update: %v %s", err, result)
	}
	if updated.Description != "more detail" || updated.Status != domain.TicketStatusInProgress {
		t.Fatalf("unexpected ticket %+v", updated)
	}
	if got := len(f.systemFor(t, "rep-1")); got != 0 {
		t.Fatalf("expected no notifications, got %d", got)
	}
	if got := f.events.types(); got[len(got)-1] != events.EventTicketUpdated {
		t.Fatalf("expected updated event, got %v", got)
	}
}

func TestUpdateToleratesMissingSessionAndTicket(t *testing.T) {
	f := newFixture(t)
	ticket := f.create(t, Actor{User: f.rep}, "UID46", "et-6")
	status := domain.TicketStatusClosed

	result, updated, err := f.svc.UpdateTicket(context.Background(), Actor{}, ticket.ID, domain.TicketPatch{Status: &status})
	if err != nil || result != UpdateSessionMissing || updated != nil {
		t.Fatalf("expected session missing no-op, got %s %v %v", result, updated, err)
	}
	result, _, err = f.svc.UpdateTicket(context.Background(), Actor{User: f.admin}, "missing", domain.TicketPatch{Status: &status})
	if err != nil || result != UpdateTicketNotFound {
		t.Fatalf("expected ticket not found no-op, got %s %v", result, err)
	}

	stored, _ := f.store.Tickets().GetByID(context.Background(), ticket.ID)
	if stored.Status != domain.TicketStatusInProgress {
		t.Fatalf("no-op updates must not write, got %s", stored.Status)
	}
	if trail := f.trail(t, ticket.ID); len(trail) != 1 {
		t.Fatalf("no-op updates must not audit, got %d entries", len(trail))
	}
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)
	ticket := f.create(t, Actor{User: f.rep}, "UID47", "et-6")
	status := domain.TicketStatus("REOPENED")
	_, _, err := f.svc.UpdateTicket(context.Background(), Actor{User: f.admin}, ticket.ID, domain.TicketPatch{Status: &status})
	if de := apperrors.ToDomainError(err); de == nil || de.Code != "VALIDATION_FAILED" {
		t.Fatalf("expected validation error, got %v", err)
	}
}

type failingAuditStore struct {
	repository.Store
}

func (s failingAuditStore) AuditLogs() repository.AuditLogRepository { return failingAuditRepo{} }

func (s failingAuditStore) WithinTx(ctx context.Context, fn func(repository.Store) error) error {
	return s.Store.WithinTx(ctx, func(tx repository.Store) error {
		return fn(failingAuditStore{Store: tx})
	})
}

type failingAuditRepo struct{}

func (failingAuditRepo) Append(context.Context, *domain.AuditLog) error {
	return errors.New("audit unavailable")
}

func (failingAuditRepo) ListByTicket(context.Context, string) ([]domain.AuditLog, error) {
	return nil, nil
}

func (failingAuditRepo) List(context.Context, int) ([]domain.AuditLog, error) { return nil, nil }

func TestCreateIsAllOrNothing(t *testing.T) {
	f := newFixture(t)
	svc := NewTicketService(TicketDependencies{Store: failingAuditStore{Store: f.store}})

	_, err := svc.CreateTicket(context.Background(), Actor{User: f.rep}, TicketDraft{UID: "UID900", ErrorTypeID: "et-4", Description: "x"})
	if err == nil {
		t.Fatalf("expected audit failure to fail the create")
	}
	tickets, _ := f.store.Tickets().List(context.Background(), repository.TicketFilter{})
	if len(tickets) != 0 {
		t.Fatalf("ticket must roll back, got %d", len(tickets))
	}
	if len(f.adminFeed(t)) != 0 || len(f.systemFor(t, "rep-1")) != 0 {
		t.Fatalf("notifications must roll back with the ticket")
	}
}

func TestConcurrentResubmissionsEscalateAllButOne(t *testing.T) {
	f := newFixture(t)
	const n = 8
	var wg sync.WaitGroup
	statuses := make(chan domain.TicketStatus, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ticket, err := f.svc.CreateTicket(context.Background(), Actor{User: f.rep}, TicketDraft{UID: "UID777", ErrorTypeID: "et-4", Description: "x"})
			if err != nil {
				t.Errorf("create: %v", err)
				return
			}
			statuses <- ticket.Status
		}()
	}
	wg.Wait()
	close(statuses)

	closed := 0
	for s := range statuses {
		if s == domain.TicketStatusClosed {
			closed++
		}
	}
	if closed != 1 {
		t.Fatalf("expected exactly one auto-closed ticket, got %d", closed)
	}
}

func TestListAndGetAreScopedByRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	own := f.create(t, Actor{User: f.rep}, "UID1", "et-6")
	foreign := f.create(t, Actor{User: f.peer}, "UID2", "et-6")

	list, err := f.svc.ListTickets(ctx, Actor{User: f.rep}, TicketQuery{})
	if err != nil || len(list) != 1 || list[0].ID != own.ID {
		t.Fatalf("representative should see own tickets only, got %v %v", list, err)
	}
	list, err = f.svc.ListTickets(ctx, Actor{User: f.areaMgr}, TicketQuery{})
	if err != nil || len(list) != 1 || list[0].ID != own.ID {
		t.Fatalf("area manager should see descendant tickets, got %v %v", list, err)
	}
	list, err = f.svc.ListTickets(ctx, Actor{User: f.admin}, TicketQuery{})
	if err != nil || len(list) != 2 {
		t.Fatalf("admin should see all tickets, got %v %v", list, err)
	}

	if _, err := f.svc.GetTicket(ctx, Actor{User: f.rep}, foreign.ID); apperrors.ToDomainError(err).Code != "FORBIDDEN" {
		t.Fatalf("expected forbidden for foreign ticket, got %v", err)
	}
	detail, err := f.svc.GetTicket(ctx, Actor{User: f.manager}, own.ID)
	if err != nil || len(detail.AuditTrail) != 1 {
		t.Fatalf("expected detail with audit trail, got %+v %v", detail, err)
	}
	if _, err := f.svc.ListTickets(ctx, Actor{}, TicketQuery{}); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("expected session invalid, got %v", err)
	}
}

func TestKPIScopes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	empty, err := f.svc.KPIs(ctx, Actor{User: f.admin}, KPIScopeGlobal)
	if err != nil {
		t.Fatalf("kpis: %v", err)
	}
	if empty != (KPI{ActiveCount: 0, ClosedCount: 0, AvgResolutionTime: "not available"}) {
		t.Fatalf("unexpected empty kpi %+v", empty)
	}

	f.create(t, Actor{User: f.rep}, "UID1", "et-6")
	f.create(t, Actor{User: f.rep}, "UID2", "et-4")
	f.create(t, Actor{User: f.peer}, "UID3", "et-6")

	mine, _ := f.svc.KPIs(ctx, Actor{User: f.rep}, KPIScopeMine)
	if mine.ActiveCount != 1 || mine.ClosedCount != 1 || mine.AvgResolutionTime != "0.0 days" {
		t.Fatalf("unexpected personal kpi %+v", mine)
	}
	team, _ := f.svc.KPIs(ctx, Actor{User: f.manager}, KPIScopeTeam)
	if team.ActiveCount != 1 || team.ClosedCount != 1 {
		t.Fatalf("unexpected team kpi %+v", team)
	}
	peerTeam, _ := f.svc.KPIs(ctx, Actor{User: f.peer}, KPIScopeTeam)
	if peerTeam.ActiveCount != 1 || peerTeam.ClosedCount != 0 {
		t.Fatalf("unexpected representative team kpi %+v", peerTeam)
	}
	if _, err := f.svc.KPIs(ctx, Actor{User: f.admin}, KPIScope("weekly")); err == nil {
		t.Fatalf("expected unknown scope to fail")
	}
}

func TestManagerSeesOwnTicketsAlongsideReports(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mine := f.create(t, Actor{User: f.manager}, "UID7", "et-6")
	reported := f.create(t, Actor{User: f.rep, Team: "North-1"}, "UID8", "et-6")

	list, err := f.svc.ListTickets(ctx, Actor{User: f.manager}, TicketQuery{})
	if err != nil || len(list) != 2 {
		t.Fatalf("expected manager to see own and report tickets, got %v %v", list, err)
	}
	if _, err := f.svc.GetTicket(ctx, Actor{User: f.manager}, mine.ID); err != nil {
		t.Fatalf("manager should read own ticket: %v", err)
	}
	if _, err := f.svc.GetTicket(ctx, Actor{User: f.rep}, mine.ID); apperrors.ToDomainError(err).Code != "FORBIDDEN" {
		t.Fatalf("representative should not read manager ticket, got %v", err)
	}
	if reported.RepresentativeID != f.rep.ID {
		t.Fatalf("unexpected owner %s", reported.RepresentativeID)
	}
}
