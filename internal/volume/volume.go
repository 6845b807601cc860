// Package volume reports facts about the storage a catalog was taken from.
package volume

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"

	"github.com/ngenohkevin/storcat-agent/internal/cache"
)

// Inspector reads volume and host facts through a short-lived cache
type Inspector struct {
	cache *cache.Cache
}

// NewInspector creates an inspector whose answers are reused for ttl
func NewInspector(ttl time.Duration) *Inspector {
	return &Inspector{cache: cache.New(ttl)}
}

// Volume returns usage of the filesystem holding path
func (i *Inspector) Volume(path string) (*Info, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	value, err := i.cache.GetOrSet(cache.KeyVolume+absPath, func() (interface{}, error) {
		return readVolume(absPath)
	})
	if err != nil {
		return nil, err
	}
	return value.(*Info), nil
}

// Host returns identification facts about the machine running the agent
func (i *Inspector) Host() (*HostInfo, error) {
	value, err := i.cache.GetOrSet(cache.KeyHost, func() (interface{}, error) {
		return readHost()
	})
	if err != nil {
		return nil, err
	}
	return value.(*HostInfo), nil
}

func readVolume(absPath string) (*Info, error) {
	usage, err := disk.Usage(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get disk usage: %w", err)
	}

	info := &Info{
		Path:        absPath,
		Fstype:      usage.Fstype,
		Total:       usage.Total,
		Used:        usage.Used,
		Free:        usage.Free,
		UsedPercent: usage.UsedPercent,
	}

	// Partition lookup is best effort; usage alone is still useful
	partitions, err := disk.Partitions(false)
	if err == nil {
		best := ""
		for _, p := range partitions {
			if containsPath(p.Mountpoint, absPath) && len(p.Mountpoint) > len(best) {
				best = p.Mountpoint
				info.Device = p.Device
				info.Mountpoint = p.Mountpoint
			}
		}
	}

	return info, nil
}

func readHost() (*HostInfo, error) {
	info, err := host.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to get host info: %w", err)
	}

	return &HostInfo{
		Hostname:        info.Hostname,
		OS:              info.OS,
		Platform:        info.Platform,
		PlatformVersion: info.PlatformVersion,
		KernelVersion:   info.KernelVersion,
		KernelArch:      info.KernelArch,
		Uptime:          info.Uptime,
		UptimeHuman:     formatUptime(info.Uptime),
	}, nil
}

func containsPath(mountpoint, path string) bool {
	if mountpoint == "" {
		return false
	}
	if mountpoint == "/" || mountpoint == path {
		return true
	}
	return strings.HasPrefix(path, strings.TrimSuffix(mountpoint, string(filepath.Separator))+string(filepath.Separator))
}

// formatUptime converts uptime seconds to human readable format
func formatUptime(seconds uint64) string {
	duration := time.Duration(seconds) * time.Second

	days := int(duration.Hours() / 24)
	hours := int(duration.Hours()) % 24
	minutes := int(duration.Minutes()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// Close stops the cache janitor
func (i *Inspector) Close() {
	i.cache.Close()
}
