// Package bootstrap runs a task inside a uniform application lifecycle:
// typed config defaults and validation, logger setup, component start in
// registration order, hooks, and shutdown in reverse order.
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    return err
//	}
//	_ = app.RegisterComponent(store)
//	return app.RunTask(ctx, func(ctx context.Context) error {
//	    _, _, err := cache.GetDeckURL(ctx, dealID)
//	    return err
//	})
package bootstrap
