package main

import (
	"github.com/dwarvesf/htlc-backend/internal/server"
)

// @title HTLC Backend API
// @version 1.0
// @description Hash time-locked swaps between two parties, with custody of escrowed funds.
// @BasePath /api/v1
func main() {
	server.Init()
}
