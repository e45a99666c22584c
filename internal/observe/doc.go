// Package observe records pipeline metrics through the OpenTelemetry Metrics
// API.
//
// podcut is a batch tool with no scrape endpoint, so metrics are gathered by
// a ManualReader owned by a Collector and read back once at the end of a run:
// the CLI logs the collected points at debug level and the runner tests
// assert on them. Code that does not care about metrics uses Discard, which
// is backed by the no-op meter provider.
package observe
