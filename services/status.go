package services

import "penjahit-backend/models"

// CanTransition reports whether an order may move from one status to another.
// Production stages only move forward (skipping is allowed) and any order that
// has not reached DIAMBIL or BATAL can be cancelled.
func CanTransition(from, to models.OrderStatus) bool {
	if !from.Valid() || !to.Valid() || from == to || from.Terminal() {
		return false
	}
	if to == models.StatusCancelled {
		return true
	}
	return to.Stage() > from.Stage()
}
