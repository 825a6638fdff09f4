package service

import "github.com/google/uuid"

// ReconcilePlan is the diff between stored detail rows and a submitted list.
type ReconcilePlan[S any] struct {
	ToInsert []S
	ToUpdate []S
	ToDelete []uuid.UUID
}

// Reconcile keys rows by id: submitted rows with an id are updates, rows without one
// are inserts, and every stored row whose id was not re-submitted is deleted.
// An empty submission therefore deletes everything.
func Reconcile[E, S any](existing []E, submitted []S, existingID func(E) uuid.UUID, submittedID func(S) *uuid.UUID) ReconcilePlan[S] {
	var plan ReconcilePlan[S]

	keep := make(map[uuid.UUID]struct{}, len(submitted))
	for _, s := range submitted {
		if id := submittedID(s); id != nil && *id != uuid.Nil {
			keep[*id] = struct{}{}
			plan.ToUpdate = append(plan.ToUpdate, s)
			continue
		}
		plan.ToInsert = append(plan.ToInsert, s)
	}

	for _, e := range existing {
		id := existingID(e)
		if _, ok := keep[id]; !ok {
			plan.ToDelete = append(plan.ToDelete, id)
		}
	}
	return plan
}
