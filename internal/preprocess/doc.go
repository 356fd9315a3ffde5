// Package preprocess normalizes a raw dataset before analysis: it derives
// the composite Date column from year/month/day components and forward-fills
// missing values per column in record order. Results are memoized by content
// fingerprint through Cache.
package preprocess
