// Package dialogue runs the chat dialogue that turns a message into a graph
// image.
//
// A dialogue has two steps. The first message of a session carries the
// graph notation; the bot remembers it and asks whether the graph is
// directed. The answer to that question triggers parsing and rendering, and
// the session returns to the start.
//
// # Storage
//
// Dialogue state is kept per session in a [Store]:
//   - [MemoryStore]: in-process map, for tests and single-instance bots
//   - [FileStore]: JSON files, for the CLI chat
//   - [RedisStore]: shared state for multi-instance deployments
//   - [MongoStore]: document store with server-side expiry
//   - [SQLiteStore]: single-file database
//
// # Usage
//
//	bot := dialogue.NewBot(dialogue.NewMemoryStore(dialogue.DefaultTTL),
//	    render.NewGraphviz(), dialogue.Options{}, logger)
//
//	reply, err := bot.Handle(ctx, chatID, "A B\nB C")
//	// reply.Text == "Is your graph directed? (Y/n)"
//
//	reply, err = bot.Handle(ctx, chatID, "y")
//	// reply.Image holds the PNG
package dialogue
