// Package report serves an HTML dashboard over a run history persisted
// by store/sqlite: per-run summary counters and a scatter chart of the
// productivity table, rendered with go-echarts the way the teacher's
// monitor package renders its background-grid and traffic debug charts.
package report
