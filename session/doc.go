// Package session manages an authenticated TryFi API session.
//
// A Session is created unauthenticated, logged in once with the account
// credentials and then used for every GraphQL query of the account:
//
//	s, err := session.New(logger, session.WithTimeout(30*time.Second))
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := s.Login(ctx, "user@example.com", "secret"); err != nil {
//		log.Fatal(err)
//	}
//	if err := s.ApplyDefaultHeaders(); err != nil {
//		log.Fatal(err)
//	}
//
// # Error Handling
//
//   - AuthenticationError: the login endpoint rejected the credentials
//   - TransportError: the request never produced a response
//   - APIError: a query failed on an authenticated session
//   - ErrNotAuthenticated: headers or queries used before Login
//
// Login responses are decoded into a LoginResult, which is either LoginOK
// or LoginFailure.
package session
