// Package logger builds configured slog.Logger instances.
//
// It wraps the chosen slog handler with a decorator that pulls request-scoped
// attributes out of context at log time, so every log line written while
// handling a request automatically carries the resolved tenant (and any other
// registered extractor's attribute) without threading loggers through call
// chains.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "innkeep"),
//	    logger.WithContextExtractors(tenant.LoggerExtractor()),
//	)
//	slog.SetDefault(log)
package logger
