// Package requestid attaches a correlation id to every HTTP request so that
// log records of one request, across tenants and services, can be grouped.
package requestid
