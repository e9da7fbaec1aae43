// Package logger provides slog constructors and attribute helpers shared by
// the dispatch packages.
//
// # Creating loggers
//
//	log := logger.New(logger.WithDevelopment("billing"))
//	log := logger.New(logger.WithProduction("billing"), logger.WithOutput(os.Stderr))
//
// # Attributes
//
// Helpers return an empty slog.Attr for nil or empty values, which slog
// ignores, so they can be passed unconditionally:
//
//	log.WarnContext(ctx, "dependency call failed",
//		logger.Request("fx.get_rate"),
//		logger.CallID(dependency.CallID(ctx)),
//		logger.Attempt(dependency.Attempt(ctx)),
//		logger.Error(err),
//	)
package logger
