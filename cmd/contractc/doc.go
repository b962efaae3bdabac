/*

Command contractc compiles a smart contract source file.

Usage:

	contractc [-meta file.yaml] [-o outdir] [-list] file.ts

It writes three files named after the contract class to outdir
(default the current directory):

	Name.avm            the script, hex encoded
	Name.manifest.json  the contract manifest
	Name.map.json       the source map

Flag -meta names a YAML file describing the contract:
name, author, email, version, description, and property
overrides under properties.

Flag -list prints the script to stdout, one instruction per line,
with the source position of each instruction.

Diagnostics are printed to stderr as

	file:line:col: severity CODE: message

The exit status is 1 if there were errors.

Environment variable CONTRACTC_LOG names a file log entries are
appended to instead of stderr. CONTRACTC_NO_COLOR=true disables
coloured diagnostics on terminals.

*/
package main
