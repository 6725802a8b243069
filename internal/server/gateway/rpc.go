package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/wealthboard/wealthboard/internal/server/services"
)

// RPCGateway implements remote.RPC by dispatching the named procedures to
// the notification service.
type RPCGateway struct {
	notifications *services.Notifications
}

// NewRPCGateway constructs an RPC gateway over the notification service.
func NewRPCGateway(notifications *services.Notifications) *RPCGateway {
	return &RPCGateway{notifications: notifications}
}

// Invoke runs the named procedure with named parameters. Parameter names
// follow the p_ convention of the hosted-backend SQL functions they mirror.
func (g *RPCGateway) Invoke(ctx context.Context, name string, params map[string]any) (any, error) {
	switch name {
	case "create_notification":
		var expiresAt *time.Time
		if v, ok := params["p_expires_at"].(time.Time); ok {
			expiresAt = &v
		}
		return g.notifications.Create(ctx,
			str(params, "p_user_id"),
			str(params, "p_title"),
			str(params, "p_message"),
			str(params, "p_kind"),
			str(params, "p_action_url"),
			expiresAt,
		)

	case "mark_notification_read":
		return g.notifications.MarkRead(ctx, str(params, "p_notification_id"), str(params, "p_user_id"))

	case "mark_all_notifications_read":
		return g.notifications.MarkAllRead(ctx, str(params, "p_user_id"))

	default:
		return nil, fmt.Errorf("unknown procedure %q", name)
	}
}

func str(params map[string]any, key string) string {
	v, _ := params[key].(string)
	return v
}
