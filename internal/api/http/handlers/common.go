package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/helpline-ops/support-desk/internal/auth"
	"github.com/helpline-ops/support-desk/internal/service"
)

// actorFrom builds the service actor from the request principal. A missing principal
// yields an empty actor, which services reject as an invalid session.
func actorFrom(c *fiber.Ctx) service.Actor {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal == nil {
		return service.Actor{}
	}
	return service.Actor{User: principal.User, Team: principal.Team}
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxPage         = 100000
)

// pageWindow turns 1-based page numbers into limit and offset, clamping both so the
// offset can never overflow.
func pageWindow(page, pageSize int) (limit, offset int) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page <= 0 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	return pageSize, (page - 1) * pageSize
}

func parseBool(val string) bool {
	parsed, err := strconv.ParseBool(strings.TrimSpace(val))
	return err == nil && parsed
}

func optionalQuery(c *fiber.Ctx, key string) *string {
	val := strings.TrimSpace(c.Query(key))
	if val == "" {
		return nil
	}
	return &val
}
