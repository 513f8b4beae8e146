package clients

import (
	"context"
	"fmt"

	ws "audicob/internal/transport/websocket"
)

type WebSocketClient struct {
	hub *ws.Hub
}

func NewWebSocketClient(hub *ws.Hub) *WebSocketClient {
	return &WebSocketClient{
		hub: hub,
	}
}

// NotifyUser pushes a generic notification to every open connection of the
// user. Best-effort: a full hub channel drops the message.
func (c *WebSocketClient) NotifyUser(ctx context.Context, userID int64, title, body string) error {
	if c.hub == nil {
		return nil
	}

	message := &ws.Message{
		Type:    "notification",
		Channel: fmt.Sprintf("notify_user#%d", userID),
		Data: map[string]interface{}{
			"title": title,
			"body":  body,
		},
	}

	c.hub.Broadcast(userID, message)
	return nil
}

// NotifyStateChanged announces a delinquency state change to the user who
// requested it (and, when linked, the client's own account).
func (c *WebSocketClient) NotifyStateChanged(ctx context.Context, userID, clientID int64, prev, next string) error {
	if c.hub == nil {
		return nil
	}

	message := &ws.Message{
		Type:    "delinquency_state_changed",
		Channel: fmt.Sprintf("notify_user#%d", userID),
		Data: map[string]interface{}{
			"client_id":  clientID,
			"prev_state": prev,
			"new_state":  next,
		},
	}

	c.hub.Broadcast(userID, message)
	return nil
}

func (c *WebSocketClient) NotifyExportProgress(
	ctx context.Context,
	userID int64,
	exportID string,
	progress float64,
	stage string,
) error {
	if c.hub == nil {
		return nil
	}

	data := map[string]interface{}{
		"id":       exportID,
		"progress": progress,
	}
	if stage != "" {
		data["stage"] = stage
	}

	message := &ws.Message{
		Type:    "export_progress",
		Channel: fmt.Sprintf("notify_user_of_progress_export#%d", userID),
		Data:    data,
	}

	c.hub.Broadcast(userID, message)
	return nil
}

func (c *WebSocketClient) NotifyExportComplete(
	ctx context.Context,
	userID int64,
	exportID string,
	url string,
	filename string,
) error {
	if c.hub == nil {
		return nil
	}

	message := &ws.Message{
		Type:    "export_complete",
		Channel: fmt.Sprintf("notify_user_when_export_complete#%d", userID),
		Data: map[string]interface{}{
			"id":       exportID,
			"url":      url,
			"filename": filename,
			"user_id":  userID,
		},
	}

	c.hub.Broadcast(userID, message)
	return nil
}

func (c *WebSocketClient) NotifyExportFailed(ctx context.Context, userID int64, exportID string, errMsg string) error {
	if c.hub == nil {
		return nil
	}

	message := &ws.Message{
		Type:    "export_failed",
		Channel: fmt.Sprintf("notify_user_when_export_failed#%d", userID),
		Data: map[string]interface{}{
			"id":      exportID,
			"message": errMsg,
			"user_id": userID,
		},
	}

	c.hub.Broadcast(userID, message)
	return nil
}
