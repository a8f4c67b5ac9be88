// Package tryfi provides a client for TryFi smart collar accounts.
//
// The client logs in, then loads the account user, every pet wearing a collar with its
// current location, activity stats and rest stats, and every charging base:
//
//	client, err := tryfi.New(ctx, "user@example.com", password, logger)
//	if err != nil {
//		return err
//	}
//
//	for _, pet := range client.Pets() {
//		fmt.Println(pet)
//	}
//
// Pets are fetched one after the other in server order; for each pet its location,
// activity stats and rest stats are fetched in that order.
//
// # Refreshing
//
// UpdateBases, UpdatePets and Update reload the collections. A failed refresh leaves the
// previous collection in place. UpdatePets keeps pets without a collar unless the client
// was created WithStrictRefresh(true).
//
// # Lookups
//
// GetPet and GetBase return nil for an unknown id and log the miss at error level.
//
// # Error Handling
//
// Login failures surface as *session.AuthenticationError, network failures as
// *session.TransportError and API failures as *session.APIError:
//
//	var authErr *session.AuthenticationError
//	if errors.As(err, &authErr) {
//		// wrong credentials
//	}
//
// A Client is not safe for concurrent use.
package tryfi
