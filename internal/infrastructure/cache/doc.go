// Package cache provides the short-lived coordination state of the CRM backend:
// the per-quote-request lock that keeps two offers from being created for the
// same request at once. Redis backs it in multi-instance deployments; a
// process-local lock serves single instances and tests.
package cache
