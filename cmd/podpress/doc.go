// Command podpress is the podcast production pipeline CLI: it initializes
// episode projects, drives the four-stage pipeline, and manages the human
// review gates between stages.
package main
