// Copyright 2026 The FlowPlane Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/yaml"

	workflowv1 "github.com/daz23456/flowplane/api/v1"
)

// LoadFromDir walks dir recursively and registers every WorkflowTask and
// Workflow manifest it finds. Files may hold multiple YAML documents.
// Resources without a namespace default to defaultNamespace. Documents of
// other kinds are skipped with a warning; malformed documents fail the load.
func LoadFromDir(c *Catalog, dir, defaultNamespace string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		for i, doc := range splitDocuments(data) {
			if err := loadDocument(c, doc, defaultNamespace, logger); err != nil {
				return fmt.Errorf("%s document %d: %w", path, i+1, err)
			}
		}
		return nil
	})
}

func loadDocument(c *Catalog, doc []byte, defaultNamespace string, logger *slog.Logger) error {
	var meta metav1.TypeMeta
	if err := yaml.Unmarshal(doc, &meta); err != nil {
		return fmt.Errorf("parse document header: %w", err)
	}

	switch meta.Kind {
	case "WorkflowTask":
		var task workflowv1.WorkflowTask
		if err := yaml.UnmarshalStrict(doc, &task); err != nil {
			return fmt.Errorf("parse WorkflowTask: %w", err)
		}
		if task.Namespace == "" {
			task.Namespace = defaultNamespace
		}
		if err := c.AddTask(&task); err != nil {
			return err
		}
		logger.Debug("registered task", "namespace", task.Namespace, "name", task.Name)
	case "Workflow":
		var wf workflowv1.Workflow
		if err := yaml.UnmarshalStrict(doc, &wf); err != nil {
			return fmt.Errorf("parse Workflow: %w", err)
		}
		if wf.Namespace == "" {
			wf.Namespace = defaultNamespace
		}
		if err := c.AddWorkflow(&wf); err != nil {
			return err
		}
		logger.Debug("registered workflow", "namespace", wf.Namespace, "name", wf.Name)
	case "":
		// Blank documents between separators.
	default:
		logger.Warn("skipping unsupported kind", "kind", meta.Kind)
	}
	return nil
}

// splitDocuments separates multi-document YAML on standalone --- lines.
func splitDocuments(data []byte) [][]byte {
	var docs [][]byte
	for _, chunk := range strings.Split(string(data), "\n---") {
		trimmed := strings.TrimSpace(chunk)
		if trimmed == "" {
			continue
		}
		docs = append(docs, []byte(trimmed))
	}
	return docs
}
