// Package model holds the typed entities of a TryFi account: the user, their pets
// with collar, location and stats, and the charging bases.
//
// Entities are built from the payloads of the query package:
//
//	pet, err := model.NewPet(raw)
//	if err != nil {
//		return err
//	}
//	pet.SetCurrentLocation(*location)
//	pet.SetStats(stats.DailyStat, stats.WeeklyStat, stats.MonthlyStat)
//	pet.SetRestStats(rest.DailyStat, rest.WeeklyStat, rest.MonthlyStat)
//
// Mapping never performs I/O. A payload without an id fails with ErrInvalidPayload.
package model
