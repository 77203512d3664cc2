// Package dataprocessing loads the commodity and dollar-rate spreadsheet
// and runs the filter-aggregate stages behind every dashboard view.
//
// # Architecture
//
// The package is organized as a chain of pure stages:
//
// 1. Source: reads the raw table once (workbook file or URL, Google Sheets, exported CSV)
// 2. Normalizer: turns raw rows into immutable Records, unparseable cells become absent
// 3. Filter: narrows Records to a FilterCriteria, producing a View
// 4. Aggregation: monthly averages, trend fit, correlation matrix, dollar average
//
// Pipeline ties the stages together around the record set loaded at startup.
//
// # Usage
//
//	src, err := dataprocessing.OpenSource(cfg.Source, logger)
//	if err != nil {
//	    return err
//	}
//	p, err := dataprocessing.LoadPipeline(ctx, src, dataprocessing.NewNormalizer(cfg.Source, logger), tel, logger)
//	if err != nil {
//	    return err // wraps domain.ErrSourceUnavailable
//	}
//	res, err := p.Run(ctx, p.DefaultCriteria(), domain.ModeMonthlyAverages)
//
// # Data Flow
//
//	Source → RawTable → Normalizer → []Record → Filter → View → { MonthlyAverages, FitTrend, Correlate, DollarAverageOf }
//
// # Error Handling
//
// Only loading can fail hard, with domain.ErrSourceUnavailable. Cell parse
// failures are counted in NormalizeStats and FitTrend reports
// domain.ErrInsufficientData, which Pipeline.Run turns into
// Result.TrendUnavailable.
package dataprocessing
