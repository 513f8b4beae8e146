package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestHub_RegisterAndUnregister(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go hub.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.HandleWebSocket(w, r, 1)
	}))
	defer server.Close()

	wsURL := "ws" + server.URL[4:]
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()

	// give the hub time to register
	time.Sleep(100 * time.Millisecond)

	hub.mu.RLock()
	connections, exists := hub.connections[1]
	hub.mu.RUnlock()

	if !exists {
		t.Fatal("Connection should be registered")
	}
	if len(connections) != 1 {
		t.Fatalf("Expected 1 connection, got %d", len(connections))
	}

	conn.Close()

	time.Sleep(100 * time.Millisecond)

	hub.mu.RLock()
	_, exists = hub.connections[1]
	hub.mu.RUnlock()

	if exists {
		t.Fatal("Connection should be unregistered")
	}
}

func TestHub_Broadcast(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go hub.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.HandleWebSocket(w, r, 1)
	}))
	defer server.Close()

	wsURL := "ws" + server.URL[4:]
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()

	time.Sleep(100 * time.Millisecond)

	message := &Message{
		Type:    "test",
		Channel: "test_channel",
		Data:    map[string]interface{}{"test": "data"},
	}
	hub.Broadcast(1, message)

	conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	var received Message
	err = conn.ReadJSON(&received)
	if err != nil {
		t.Fatalf("Failed to read message: %v", err)
	}

	if received.Type != "test" {
		t.Errorf("Expected type 'test', got '%s'", received.Type)
	}
	if received.Channel != "test_channel" {
		t.Errorf("Expected channel 'test_channel', got '%s'", received.Channel)
	}
	if received.UserID != 1 {
		t.Errorf("Expected userID 1, got %d", received.UserID)
	}
}

func TestHub_MultipleConnections(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go hub.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.HandleWebSocket(w, r, 1)
	}))
	defer server.Close()

	var conns []*websocket.Conn
	for i := 0; i < 3; i++ {
		wsURL := "ws" + server.URL[4:]
		conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		if err != nil {
			t.Fatalf("Failed to connect: %v", err)
		}
		conns = append(conns, conn)
		defer conn.Close()
	}

	time.Sleep(100 * time.Millisecond)

	hub.mu.RLock()
	connections, exists := hub.connections[1]
	hub.mu.RUnlock()

	if !exists {
		t.Fatal("Connections should be registered")
	}
	if len(connections) != 3 {
		t.Fatalf("Expected 3 connections, got %d", len(connections))
	}

	message := &Message{
		Type:    "broadcast",
		Channel: "test",
		Data:    map[string]interface{}{"test": "data"},
	}
	hub.Broadcast(1, message)

	// every connection of the user receives the message
	var wg sync.WaitGroup
	for i, conn := range conns {
		wg.Add(1)
		go func(idx int, c *websocket.Conn) {
			defer wg.Done()
			c.SetReadDeadline(time.Now().Add(1 * time.Second))
			var received Message
			err := c.ReadJSON(&received)
			if err != nil {
				t.Errorf("Connection %d failed to read message: %v", idx, err)
				return
			}
			if received.Type != "broadcast" {
				t.Errorf("Connection %d: Expected type 'broadcast', got '%s'", idx, received.Type)
			}
		}(i, conn)
	}

	wg.Wait()
}

func TestHub_DifferentUsers(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go hub.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := int64(1)
		if r.URL.Query().Get("user_id") == "2" {
			userID = 2
		}
		hub.HandleWebSocket(w, r, userID)
	}))
	defer server.Close()

	wsURL1 := "ws" + server.URL[4:] + "?user_id=1"
	conn1, _, err := websocket.DefaultDialer.Dial(wsURL1, nil)
	if err != nil {
		t.Fatalf("Failed to connect user 1: %v", err)
	}
	defer conn1.Close()

	wsURL2 := "ws" + server.URL[4:] + "?user_id=2"
	conn2, _, err := websocket.DefaultDialer.Dial(wsURL2, nil)
	if err != nil {
		t.Fatalf("Failed to connect user 2: %v", err)
	}
	defer conn2.Close()

	time.Sleep(100 * time.Millisecond)

	// message targeted at user 1 only
	message := &Message{
		Type:    "private",
		Channel: "test",
		Data:    map[string]interface{}{"test": "data"},
	}
	hub.Broadcast(1, message)

	conn1.SetReadDeadline(time.Now().Add(1 * time.Second))
	var received1 Message
	err = conn1.ReadJSON(&received1)
	if err != nil {
		t.Fatalf("User 1 failed to read message: %v", err)
	}
	if received1.Type != "private" {
		t.Errorf("User 1: Expected type 'private', got '%s'", received1.Type)
	}

	conn2.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	var received2 Message
	err = conn2.ReadJSON(&received2)
	if err == nil {
		t.Error("User 2 should not receive message for user 1")
	}
}

func TestHub_BroadcastChannelFull(t *testing.T) {
	hub := NewHub()
	// small channel so it fills up immediately
	hub.broadcast = make(chan *Message, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go hub.Run(ctx)

	hub.broadcast <- &Message{Type: "fill"}
	hub.broadcast <- &Message{Type: "fill"}

	message := &Message{
		Type:    "dropped",
		Channel: "test",
		Data:    map[string]interface{}{"test": "data"},
	}
	hub.Broadcast(1, message)

	select {
	case <-time.After(100 * time.Millisecond):
		// channel stayed full, message was dropped
	case msg := <-hub.broadcast:
		if msg.Type == "dropped" {
			t.Error("Message should be dropped when channel is full")
		}
	}
}

func TestHub_ShutdownClosesConnections(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())

	go hub.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.HandleWebSocket(w, r, 1)
	}))
	defer server.Close()

	wsURL := "ws" + server.URL[4:]
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}

	time.Sleep(50 * time.Millisecond)

	// Cancel the hub context -> Run should close underlying connections
	cancel()

	time.Sleep(100 * time.Millisecond)

	conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err = conn.ReadMessage()
	if err == nil {
		t.Fatal("Expected connection to be closed after hub shutdown")
	}

	conn.Close()
}
