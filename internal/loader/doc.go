// Package loader writes a transformed batch into the star schema.
//
// A run is a single transaction. In FULL_REFRESH mode every table is dropped
// and recreated, then dimensions and facts are inserted parents first. In
// UPSERT mode the keys present in the batch are deleted (facts children
// first) and the batch rows are inserted again, so reloading the same batch
// leaves the store unchanged.
//
// Any failure rolls the whole run back. Nothing is retried.
//
// # Example Usage
//
//	o, err := loader.New(store, nbaetl.LoadConfig{Mode: nbaetl.LoadModeUpsert}, logger)
//	if err != nil {
//	    return err
//	}
//	report, err := o.Run(ctx, batch)
package loader
