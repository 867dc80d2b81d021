// Command sbarrt runs SBA*/RRT* planning jobs described in YAML files.
//
// Usage:
//
//	sbarrt plan --config job.yaml [--seed N] [--max-vertices N] [--audit]
//	            [--metrics-out metrics.prom] [--output result.json]
//	sbarrt check --config job.yaml
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
