package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Server:   ServerConfig{Port: 8080},
		Database: DatabaseConfig{Driver: "postgres"},
		Grades:   GradesConfig{Store: "database"},
		Import:   ImportConfig{MaxRows: 1000},
		Report:   ReportConfig{Terms: 10, CacheTTL: 5 * time.Minute},
	}
}

func TestConfig_Validate_OK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("默认配置应通过校验: %v", err)
	}
}

func TestConfig_Validate_BadPort(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("端口越界应校验失败")
	}
}

func TestConfig_Validate_UnknownDriver(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Driver = "mysql"
	if err := cfg.Validate(); err == nil {
		t.Error("未知数据库驱动应校验失败")
	}
}

func TestConfig_Validate_UnknownStore(t *testing.T) {
	cfg := validConfig()
	cfg.Grades.Store = "file"
	if err := cfg.Validate(); err == nil {
		t.Error("未知成绩存储应校验失败")
	}
}

func TestConfig_Validate_ZeroTerms(t *testing.T) {
	cfg := validConfig()
	cfg.Report.Terms = 0
	if err := cfg.Validate(); err == nil {
		t.Error("terms=0 应校验失败")
	}
}

func TestConfig_Load_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load 应成功: %v", err)
	}
	if cfg.Report.Terms != 10 {
		t.Errorf("期望默认 terms=10，实际=%d", cfg.Report.Terms)
	}
	if cfg.Import.MaxRows != 1000 {
		t.Errorf("期望默认 max_rows=1000，实际=%d", cfg.Import.MaxRows)
	}
	if cfg.Report.CacheTTL != 5*time.Minute {
		t.Errorf("期望默认 cache_ttl=5m，实际=%s", cfg.Report.CacheTTL)
	}
}
