// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ArgType names the destination a preset argument is scanned into.
type ArgType string

const (
	ArgBool    ArgType = "bool"
	ArgChar    ArgType = "char"
	ArgInt     ArgType = "int"
	ArgUint    ArgType = "uint"
	ArgFloat   ArgType = "float"
	ArgString  ArgType = "string"
	ArgMatches ArgType = "matches"

	// argChars is the prefix of "chars:N", a fixed run of N characters.
	argChars = "chars:"

	maxCharsSize = 4096
)

func (a ArgType) Validate() error {
	switch a {
	case ArgBool:
	case ArgChar:
	case ArgInt:
	case ArgUint:
	case ArgFloat:
	case ArgString:
	case ArgMatches:
	default:
		if _, err := a.Size(); err != nil {
			return err
		}
	}
	return nil
}

// Size returns N for a "chars:N" argument.
func (a ArgType) Size() (int, error) {
	s, ok := strings.CutPrefix(string(a), argChars)
	if !ok {
		return 0, fmt.Errorf("unknown argument type: %q", a)
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > maxCharsSize {
		return 0, fmt.Errorf("invalid character count in argument type: %q", a)
	}
	return n, nil
}

// ArgList is stored as a comma separated column.
type ArgList string

func NewArgList(args []ArgType) ArgList {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = string(a)
	}
	return ArgList(strings.Join(parts, ","))
}

func (l ArgList) Types() []ArgType {
	if l == "" {
		return nil
	}
	parts := strings.Split(string(l), ",")
	out := make([]ArgType, len(parts))
	for i, p := range parts {
		out[i] = ArgType(p)
	}
	return out
}

func (l ArgList) Validate() error {
	for _, a := range l.Types() {
		if err := a.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Preset is a named format string with the argument types it scans.
type Preset struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	UUID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Name      string    `gorm:"not null;uniqueIndex:idx_preset_name_tenant"`
	Format    string    `gorm:"not null"`
	Args      ArgList   `gorm:"not null"`
	Locale    string
	TenantID  string    `gorm:"not null;default:edgenode;uniqueIndex:idx_preset_name_tenant"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (p *Preset) BeforeCreate(*gorm.DB) error {
	return p.Args.Validate()
}

func (p *Preset) BeforeUpdate(*gorm.DB) error {
	return p.Args.Validate()
}
