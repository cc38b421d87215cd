package websocket

func (that *Server) subscribe(gameID string, c *client) {
	that.subscribersMutex.Lock()
	defer that.subscribersMutex.Unlock()

	clients, ok := that.subscribers[gameID]
	if !ok {
		clients = make(map[*client]struct{})
		that.subscribers[gameID] = clients
	}

	clients[c] = struct{}{}
}

func (that *Server) register(c *client) {
	that.subscribersMutex.Lock()
	defer that.subscribersMutex.Unlock()

	that.connections[c] = struct{}{}
}

// unregister - forgets a disconnected client and its subscriptions.
func (that *Server) unregister(c *client) {
	that.subscribersMutex.Lock()
	defer that.subscribersMutex.Unlock()

	delete(that.connections, c)

	for gameID, clients := range that.subscribers {
		delete(clients, c)

		if len(clients) == 0 {
			delete(that.subscribers, gameID)
		}
	}
}

// popSubscribers - removes the game and returns whoever followed it.
func (that *Server) popSubscribers(gameID string) []*client {
	that.subscribersMutex.Lock()
	defer that.subscribersMutex.Unlock()

	clients := make([]*client, 0, len(that.subscribers[gameID]))
	for c := range that.subscribers[gameID] {
		clients = append(clients, c)
	}

	delete(that.subscribers, gameID)

	return clients
}

func (that *Server) subscribersOf(gameID string) []*client {
	that.subscribersMutex.RLock()
	defer that.subscribersMutex.RUnlock()

	clients := make([]*client, 0, len(that.subscribers[gameID]))
	for c := range that.subscribers[gameID] {
		clients = append(clients, c)
	}

	return clients
}

// broadcast - sends the payload to every client following the game.
func (that *Server) broadcast(clients []*client, action string, payload Payload) {
	log := that.logger.With("method", "broadcast", "action", action)

	for _, c := range clients {
		if err := that.sendMessage(c, action, payload); err != nil {
			log.Error("failed to send game update", "error", err)
		}
	}
}

// closeAll - closes every open connection; their read loops then unregister them.
func (that *Server) closeAll() {
	that.subscribersMutex.RLock()
	defer that.subscribersMutex.RUnlock()

	for c := range that.connections {
		_ = c.conn.Close()
	}
}
