// Copyright 2026 The FlowPlane Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"sigs.k8s.io/controller-runtime/pkg/client"

	workflowv1 "github.com/daz23456/flowplane/api/v1"
)

// LoadFromCluster lists WorkflowTask and Workflow resources through the given
// client and registers them. An empty namespace loads from all namespaces.
func LoadFromCluster(ctx context.Context, c *Catalog, k8s client.Client, namespace string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	var opts []client.ListOption
	if namespace != "" {
		opts = append(opts, client.InNamespace(namespace))
	}

	var taskList workflowv1.WorkflowTaskList
	if err := k8s.List(ctx, &taskList, opts...); err != nil {
		return fmt.Errorf("list workflow tasks: %w", err)
	}
	for i := range taskList.Items {
		task := &taskList.Items[i]
		if err := c.AddTask(task); err != nil {
			logger.Warn("skipping task", "namespace", task.Namespace, "name", task.Name, "error", err)
			continue
		}
		logger.Debug("registered task", "namespace", task.Namespace, "name", task.Name)
	}

	var wfList workflowv1.WorkflowList
	if err := k8s.List(ctx, &wfList, opts...); err != nil {
		return fmt.Errorf("list workflows: %w", err)
	}
	for i := range wfList.Items {
		wf := &wfList.Items[i]
		if err := c.AddWorkflow(wf); err != nil {
			logger.Warn("skipping workflow", "namespace", wf.Namespace, "name", wf.Name, "error", err)
			continue
		}
		logger.Debug("registered workflow", "namespace", wf.Namespace, "name", wf.Name)
	}

	logger.Info("catalog loaded from cluster",
		"tasks", len(taskList.Items), "workflows", len(wfList.Items))
	return nil
}
