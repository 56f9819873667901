/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"fmt"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

const schemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "paperfold config",
  "type": "object",
  "properties": {
    "config_version": {"type": "integer", "minimum": 1},
    "canvas": {
      "type": "object",
      "properties": {
        "width": {"type": "number", "exclusiveMinimum": 0},
        "height": {"type": "number", "exclusiveMinimum": 0},
        "offset": {"type": "number", "minimum": 0}
      },
      "additionalProperties": false
    },
    "snap": {
      "type": "object",
      "properties": {
        "threshold": {"type": "number"},
        "coarse_step": {"type": "number", "exclusiveMinimum": 0},
        "precision": {"type": "number", "exclusiveMinimum": 0},
        "pick": {"type": "string", "enum": ["first", "nearest", "FIRST", "NEAREST", "First", "Nearest"]}
      },
      "additionalProperties": false
    },
    "export": {
      "type": "object",
      "properties": {
        "stroke_width": {"type": "number", "exclusiveMinimum": 0},
        "indicator_radius": {"type": "number", "exclusiveMinimum": 0},
        "dpi": {"type": "number", "exclusiveMinimum": 0}
      },
      "additionalProperties": false
    },
    "logging": {
      "type": "object",
      "properties": {
        "level": {"type": "string", "enum": ["debug", "info", "warn", "warning", "error", ""]},
        "format": {"type": "string", "enum": ["console", "json", ""]},
        "source": {"type": "boolean"},
        "file": {"type": "string"}
      },
      "additionalProperties": false
    }
  }
}`

// ValidationError lists every schema violation found in a config document.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid config: " + strings.Join(e.Problems, "; ")
}

// Validate checks a YAML config document against the embedded JSON schema.
// An empty document is valid.
func Validate(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if doc == nil {
		return nil
	}
	result, err := gojsonschema.Validate(gojsonschema.NewStringLoader(schemaJSON), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	if result.Valid() {
		return nil
	}
	ve := &ValidationError{}
	for _, re := range result.Errors() {
		ve.Problems = append(ve.Problems, re.String())
	}
	return ve
}
