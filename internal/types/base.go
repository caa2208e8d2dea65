package types

import (
	"context"
	"time"
)

// Status represents the lifecycle status of a record
type Status string

const (
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
	StatusDeleted   Status = "deleted"
)

// BaseModel carries the common audit columns shared by all persisted models
type BaseModel struct {
	TenantID  string    `json:"tenant_id"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy string    `json:"created_by"`
	UpdatedBy string    `json:"updated_by"`
}

type contextKey string

const (
	CtxTenantID      contextKey = "ctx_tenant_id"
	CtxEnvironmentID contextKey = "ctx_environment_id"
	CtxUserID        contextKey = "ctx_user_id"
)

// DefaultTenantID is used when no tenant is present in the context
const DefaultTenantID = "00000000-0000-0000-0000-000000000000"

func GetTenantID(ctx context.Context) string {
	if id, ok := ctx.Value(CtxTenantID).(string); ok {
		return id
	}
	return DefaultTenantID
}

func SetTenantID(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, CtxTenantID, tenantID)
}

func GetEnvironmentID(ctx context.Context) string {
	if id, ok := ctx.Value(CtxEnvironmentID).(string); ok {
		return id
	}
	return ""
}

func SetEnvironmentID(ctx context.Context, environmentID string) context.Context {
	return context.WithValue(ctx, CtxEnvironmentID, environmentID)
}

func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(CtxUserID).(string); ok {
		return id
	}
	return ""
}

func SetUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, CtxUserID, userID)
}

// GetDefaultBaseModel returns a BaseModel initialized from the context with
// a published status and current timestamps
func GetDefaultBaseModel(ctx context.Context) BaseModel {
	now := time.Now().UTC()
	return BaseModel{
		TenantID:  GetTenantID(ctx),
		Status:    StatusPublished,
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: GetUserID(ctx),
		UpdatedBy: GetUserID(ctx),
	}
}

// LogLevel represents the logging level
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// RunMode represents the deployment mode of the application
type RunMode string

const (
	RunModeLocal RunMode = "local"
	RunModeProd  RunMode = "prod"
)
