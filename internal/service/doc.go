// Package service implements the business logic layer for the game catalog API.
//
// GameService sits between the HTTP handlers and the game store. It validates
// requests, keeps game names unique among live games, and converts store
// errors into the small set of sentinel errors handlers map to responses.
//
// # Service Pattern
//
//   - Constructor function (NewGameService) accepts a config struct with the repository dependency
//   - The service defines the GameRepository interface it needs; any store satisfying it can be plugged in
//   - Context is passed through for cancellation and request-scoped values
//
// # Error Handling
//
//	var (
//	    ErrGameNotFound  = errors.New("game not found")
//	    ErrGameNameTaken = errors.New("game name already exists")
//	    ErrStoreFailure  = errors.New("game store failure")
//	)
//
// Name conflicts are returned as *NameConflictError, which unwraps to
// ErrGameNameTaken. Invalid input is returned as a *model.ProblemDetails.
//
// # Example Usage
//
//	svc := NewGameService(GameServiceConfig{
//	    GameRepo: repository.NewGameRepository(db),
//	})
//	game, err := svc.CreateGame(ctx, &model.CreateGameRequest{Name: "Chess"})
//	if errors.Is(err, ErrGameNameTaken) {
//	    // report conflict
//	}
package service
