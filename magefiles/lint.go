// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binLint     = "golangci-lint"
	lintTimeout = "5m"
)

// Vet runs go vet over every board package.
func Vet() error {
	return sh.RunV(binGo, "vet", "./...")
}

// Lint vets the module, then runs golangci-lint over it.
func Lint() error {
	mg.Deps(Vet)
	return sh.RunV(binLint, "run", "--timeout", lintTimeout, "./...")
}
