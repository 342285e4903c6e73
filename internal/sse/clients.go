// Package sse tracks Server-Sent Events subscribers per browser session.
package sse

import (
	"sync"
)

// Client is one open event stream. Msg is buffered by the caller's choice; a full buffer drops
// the message.
type Client struct {
	Msg       chan string
	SessionID string
}

func NewClient(sessionID string) *Client {
	return &Client{
		Msg:       make(chan string, 1),
		SessionID: sessionID,
	}
}

type SSEClients struct {
	clients map[*Client]bool
	mu      sync.RWMutex
}

func NewSSEClients() *SSEClients {
	return &SSEClients{
		clients: make(map[*Client]bool),
	}
}

func (s *SSEClients) Add(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[client] = true
}

// Delete removes client and closes its channel. Deleting an unknown client does nothing.
func (s *SSEClients) Delete(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[client]; !ok {
		return
	}
	delete(s.clients, client)
	close(client.Msg)
}

// Broadcast sends msg to every client of the session without blocking. It returns the number
// of clients that accepted the message.
func (s *SSEClients) Broadcast(sessionID string, msg string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sent := 0
	for client := range s.clients {
		if client.SessionID == sessionID {
			select {
			case client.Msg <- msg:
				sent++
			default:
			}
		}
	}
	return sent
}

func (s *SSEClients) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}
