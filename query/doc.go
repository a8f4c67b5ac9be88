// Package query holds the GraphQL documents of the TryFi API and the typed payloads
// they return.
//
// Every fetcher takes a Querier, normally an authenticated *session.Session, and returns
// the payload found at the documented path of the response:
//
//	households, err := query.GetPetList(ctx, sess)
//	for _, h := range households {
//		for _, pet := range h.Household.Pets {
//			if !pet.Device.Present() {
//				continue
//			}
//			loc, err := query.GetCurrentPetLocation(ctx, sess, pet.ID)
//			...
//		}
//	}
//
// Each document starts with a named operation (OpPetList, OpPetLocation, ...), which
// makes requests easy to tell apart in logs and fakes.
package query
