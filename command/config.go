// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package command

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/dataprotect/hcl"
	"github.com/hashicorp/dataprotect/metamodel"
	"github.com/hashicorp/dataprotect/util"
)

// loadConfig reads a data protection config, choosing the format from the file extension: ".hcl" for
// hand-written protect blocks, ".json", ".yaml" or ".yml" for generated metamodels.
func loadConfig(path string) (metamodel.ConfigList, error) {
	expanded, err := util.ExpandPath(path)
	if err != nil {
		return metamodel.ConfigList{}, err
	}

	if strings.ToLower(filepath.Ext(expanded)) == ".hcl" {
		h, err := hcl.Parse(expanded)
		if err != nil {
			return metamodel.ConfigList{}, err
		}
		return hcl.MapConfigs(h)
	}
	return metamodel.ReadFile(expanded)
}

// selectConfig picks the Config for typeName. An empty typeName is accepted when only one type is configured.
func selectConfig(l metamodel.ConfigList, typeName string) (metamodel.Config, error) {
	if typeName == "" {
		if len(l.Configs) != 1 {
			return metamodel.Config{}, fmt.Errorf("config describes %d types, use -type to choose one", len(l.Configs))
		}
		return l.Configs[0], nil
	}

	c, ok := l.Lookup(typeName)
	if !ok {
		return metamodel.Config{}, fmt.Errorf("type %s is not configured", typeName)
	}
	return c, nil
}
