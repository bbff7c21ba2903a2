// Package game implements the blackjack round: players, the roster, the
// round-over and last-round predicates, winner selection and the turn loop.
//
// # Basic Usage
//
//	g := game.NewGame()
//	g.AddPlayer(game.NewPlayer("Alice"))
//	g.AddPlayer(game.NewPlayer("Bob"))
//	g.Start()
//	g.SetMode(game.Manual)
//	result, err := game.NewEngine(g, game.ThresholdAgent{Threshold: 17}).PlayRound(ctx)
//
// # Scoring
//
// A hand scores the sum of its rank values. Number cards count their face
// value, J, D and K count 10 and an Ace always counts 11.
//
// # Turn order
//
// In Auto mode every player draws one card per pass. In Manual mode a player
// holding cards is asked by their Agent whether to stand. In both modes a pass
// ends at the first bust, so players later in the seat order may not act in
// the pass that ends the round.
//
// # Deterministic Testing
//
// Inject the deck to replay a known sequence:
//
//	g.StartWithDeck(deck.NewDeckFromCards(deck.MustParseCards("10h As Ks Kd 5c")...))
//
// or seed the shuffle with game.WithRNG(randutil.New(42)).
//
// # Events
//
// The game never writes output itself. Every state change is published on
// the EventBus (CardDrawn, PlayerFolded, PlayerBust, WinnerDeclared,
// RoundOver...) and drivers subscribe to render or log them.
package game
