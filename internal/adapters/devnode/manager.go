package devnode

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

const (
	DefaultNodeName = "anvil"
	DefaultNodePort = "8545"

	startupTimeout = 10 * time.Second
	stopTimeout    = 5 * time.Second
)

// Manager runs anvil as a detached process tracked by a PID file
type Manager struct {
	binary  string
	tempDir string
}

// NewManager creates a new anvil process manager
func NewManager() *Manager {
	return &Manager{binary: "anvil", tempDir: os.TempDir()}
}

// setFilePaths fills in defaults, keeping preset paths
func (m *Manager) setFilePaths(instance *domain.NodeInstance) {
	if strings.TrimSpace(instance.Name) == "" {
		instance.Name = DefaultNodeName
	}
	if strings.TrimSpace(instance.Port) == "" {
		instance.Port = DefaultNodePort
	}
	if instance.PidFile == "" {
		instance.PidFile = filepath.Join(m.tempDir, fmt.Sprintf("catapult-%s.pid", instance.Name))
	}
	if instance.LogFile == "" {
		instance.LogFile = filepath.Join(m.tempDir, fmt.Sprintf("catapult-%s.log", instance.Name))
	}
}

func buildAnvilArgs(instance *domain.NodeInstance) []string {
	args := []string{"--port", instance.Port, "--host", "0.0.0.0"}
	if instance.ChainID != "" {
		args = append(args, "--chain-id", instance.ChainID)
	}
	if instance.ForkURL != "" {
		args = append(args, "--fork-url", instance.ForkURL)
	}
	return args
}

func rpcURL(instance *domain.NodeInstance) string {
	return fmt.Sprintf("http://127.0.0.1:%s", instance.Port)
}

// Start launches anvil and waits until its RPC answers
func (m *Manager) Start(ctx context.Context, instance *domain.NodeInstance) error {
	m.setFilePaths(instance)
	if pid, running := m.runningPID(instance); running {
		return fmt.Errorf("node '%s' is already running (PID %d, PID file %s)", instance.Name, pid, instance.PidFile)
	}

	logFile, err := os.Create(instance.LogFile)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer logFile.Close()

	cmd := exec.Command(m.binary, buildAnvilArgs(instance)...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", m.binary, err)
	}
	if err := os.WriteFile(instance.PidFile, []byte(strconv.Itoa(cmd.Process.Pid)), 0644); err != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	_ = cmd.Process.Release()

	deadline := time.Now().Add(startupTimeout)
	for {
		if _, _, err := probe(ctx, rpcURL(instance)); err == nil {
			return nil
		} else if time.Now().After(deadline) {
			return fmt.Errorf("node '%s' did not become ready, see %s: %w", instance.Name, instance.LogFile, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(200 * time.Millisecond):
		}
	}
}

// Stop terminates the process recorded in the PID file
func (m *Manager) Stop(ctx context.Context, instance *domain.NodeInstance) error {
	m.setFilePaths(instance)
	pid, running := m.runningPID(instance)
	if !running {
		_ = os.Remove(instance.PidFile)
		return fmt.Errorf("node '%s' is not running: %w", instance.Name, domain.ErrNotFound)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}
	if err := process.Signal(syscall.SIGTERM); err != nil {
		if err := process.Kill(); err != nil {
			return fmt.Errorf("failed to kill process: %w", err)
		}
	}

	deadline := time.Now().Add(stopTimeout)
	for alive(pid) && time.Now().Before(deadline) {
		time.Sleep(100 * time.Millisecond)
	}
	if alive(pid) {
		_ = process.Kill()
	}

	if err := os.Remove(instance.PidFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// GetStatus reports process liveness and RPC health
func (m *Manager) GetStatus(ctx context.Context, instance *domain.NodeInstance) (*domain.NodeStatus, error) {
	m.setFilePaths(instance)
	status := &domain.NodeStatus{LogFile: instance.LogFile}

	pid, running := m.runningPID(instance)
	if !running {
		return status, nil
	}
	status.Running = true
	status.PID = pid
	status.RPCURL = rpcURL(instance)

	chainID, head, err := probe(ctx, status.RPCURL)
	if err != nil {
		status.Error = err.Error()
		return status, nil
	}
	status.RPCHealthy = true
	status.ChainID = chainID
	status.BlockNumber = head
	return status, nil
}

// StreamLogs copies the log file to writer and follows it until ctx ends
func (m *Manager) StreamLogs(ctx context.Context, instance *domain.NodeInstance, writer io.Writer) error {
	m.setFilePaths(instance)
	f, err := os.Open(instance.LogFile)
	if err != nil {
		return fmt.Errorf("log file does not exist: %s", instance.LogFile)
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			if _, werr := io.WriteString(writer, line); werr != nil {
				return werr
			}
		}
		if errors.Is(err, io.EOF) {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(250 * time.Millisecond):
			}
			continue
		}
		if err != nil {
			return err
		}
	}
}

func (m *Manager) runningPID(instance *domain.NodeInstance) (int, bool) {
	data, err := os.ReadFile(instance.PidFile)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, false
	}
	return pid, alive(pid)
}

func alive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}

// probe asks the node for its chain ID and head
func probe(ctx context.Context, url string) (uint64, uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return 0, 0, err
	}
	defer client.Close()

	var chainID, head hexutil.Uint64
	if err := client.CallContext(ctx, &chainID, "eth_chainId"); err != nil {
		return 0, 0, err
	}
	if err := client.CallContext(ctx, &head, "eth_blockNumber"); err != nil {
		return 0, 0, err
	}
	return uint64(chainID), uint64(head), nil
}

var _ usecase.NodeManager = (*Manager)(nil)
