package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/trebuchet-org/catapult/internal/domain"
)

// ManageNode handles local development node operations
type ManageNode struct {
	nodes    NodeManager
	progress ProgressSink
}

// NewManageNode creates a new node management use case
func NewManageNode(nodes NodeManager, progress ProgressSink) *ManageNode {
	return &ManageNode{
		nodes:    nodes,
		progress: progress,
	}
}

// ManageNodeParams contains parameters for node operations
type ManageNodeParams struct {
	Operation string // start, stop, restart, status, logs
	Name      string
	Port      string
	ChainID   string
	ForkURL   string
}

// ManageNodeResult contains the result of node operations
type ManageNodeResult struct {
	Operation string               `json:"operation" yaml:"operation"`
	Instance  *domain.NodeInstance `json:"instance" yaml:"instance"`
	Status    *domain.NodeStatus   `json:"status,omitempty" yaml:"status,omitempty"`
	Message   string               `json:"message,omitempty" yaml:"message,omitempty"`
}

// Execute performs the node management operation
func (m *ManageNode) Execute(ctx context.Context, params ManageNodeParams) (*ManageNodeResult, error) {
	instance := &domain.NodeInstance{
		Name:    params.Name,
		Port:    params.Port,
		ChainID: params.ChainID,
		ForkURL: params.ForkURL,
	}

	switch params.Operation {
	case "start":
		return m.start(ctx, instance)
	case "stop":
		return m.stop(ctx, instance)
	case "restart":
		if _, err := m.stop(ctx, instance); err != nil {
			return nil, err
		}
		result, err := m.start(ctx, instance)
		if result != nil {
			result.Operation = "restart"
		}
		return result, err
	case "status", "logs":
		status, err := m.nodes.GetStatus(ctx, instance)
		if err != nil {
			return nil, fmt.Errorf("failed to get status: %w", err)
		}
		return &ManageNodeResult{Operation: params.Operation, Instance: instance, Status: status}, nil
	default:
		return nil, fmt.Errorf("unknown operation: %s", params.Operation)
	}
}

func (m *ManageNode) start(ctx context.Context, instance *domain.NodeInstance) (*ManageNodeResult, error) {
	m.progress.Info(fmt.Sprintf("Starting local node '%s' on port %s...", instance.Name, instance.Port))

	status, err := m.nodes.GetStatus(ctx, instance)
	if err == nil && status.Running {
		return nil, fmt.Errorf("node '%s' is already running (PID %d)", instance.Name, status.PID)
	}

	if err := m.nodes.Start(ctx, instance); err != nil {
		return nil, fmt.Errorf("failed to start node: %w", err)
	}

	status, err = m.nodes.GetStatus(ctx, instance)
	if err != nil {
		return nil, fmt.Errorf("failed to get status after start: %w", err)
	}

	return &ManageNodeResult{
		Operation: "start",
		Instance:  instance,
		Status:    status,
		Message:   fmt.Sprintf("Node '%s' started with PID %d", instance.Name, status.PID),
	}, nil
}

func (m *ManageNode) stop(ctx context.Context, instance *domain.NodeInstance) (*ManageNodeResult, error) {
	m.progress.Info(fmt.Sprintf("Stopping node '%s'...", instance.Name))

	err := m.nodes.Stop(ctx, instance)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return &ManageNodeResult{
			Operation: "stop",
			Instance:  instance,
			Message:   fmt.Sprintf("Node '%s' is not running", instance.Name),
		}, nil
	case err != nil:
		return nil, fmt.Errorf("failed to stop node: %w", err)
	}

	return &ManageNodeResult{
		Operation: "stop",
		Instance:  instance,
		Message:   fmt.Sprintf("Node '%s' stopped", instance.Name),
	}, nil
}
