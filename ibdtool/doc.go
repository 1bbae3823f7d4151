// Package ibdtool writes iLASH configuration files and runs the external
// binaries of the workflow (iLASH, Infomap, SHAPEIT) as blocking processes.
package ibdtool
