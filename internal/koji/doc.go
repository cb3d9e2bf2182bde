// Package koji resolves builds on a Koji hub and downloads their artifacts.
//
// The hub is reached over XML-RPC (getBuild, listRPMs, listTagged). Module
// builds are expanded into their tagged component builds, and the modulemd
// filter list tells the gatherer which component packages to skip.
// Artifacts are fetched over plain HTTP from the package server configured
// as download_ursine (or download_mbs for modules).
package koji
