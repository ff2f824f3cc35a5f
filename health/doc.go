// Package health reports whether the variable stores behind a service can
// serve requests.
//
// A Checker reports a Status: Healthy, Degraded or Unhealthy. StoreChecker
// pings a remote variable store and treats in-process stores as always
// healthy. An Aggregator runs many checkers concurrently and folds their
// results into one status:
//
//	agg := health.NewAggregator()
//	checker, _ := health.NewStoreChecker("variables", svc.VariablesStore(), health.StoreCheckerConfig{})
//	agg.Register("variables", checker)
//
//	results := agg.CheckAll(ctx)
//	status := agg.OverallStatus(results)
package health
