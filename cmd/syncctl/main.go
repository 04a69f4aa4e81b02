package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const (
	defaultAddress = "http://127.0.0.1:8780"
	defaultTimeout = 10 * time.Second
)

var (
	address = flag.String("address", defaultAddress, "wingetsync status server address")
	timeout = flag.Duration("timeout", defaultTimeout, "request timeout")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `syncctl - wingetsync 状态查询命令行工具

用法:
  syncctl [选项] <命令>

命令:
  health                 检查服务是否存活
  status                 查看最近一轮同步结果
  apps                   列出跟踪的应用与已持久化的记录

选项:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
示例:
  syncctl status
  syncctl -address http://127.0.0.1:8780 apps
`)
	}

	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	var path string
	switch flag.Arg(0) {
	case "health":
		path = "/healthz"
	case "status":
		path = "/api/v1/runs/latest"
	case "apps":
		path = "/api/v1/apps"
	default:
		fmt.Fprintf(os.Stderr, "错误: 未知命令 %q\n", flag.Arg(0))
		flag.Usage()
		os.Exit(1)
	}

	client := &http.Client{Timeout: *timeout}
	resp, err := client.Get(*address + path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "错误: 无法连接到 wingetsync (%s): %v\n", *address, err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Fprintf(os.Stderr, "错误: 读取响应失败: %v\n", err)
		os.Exit(1)
	}

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "错误: 服务返回 %d: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	// 重新缩进输出,便于阅读
	var pretty map[string]interface{}
	if err := json.Unmarshal(body, &pretty); err == nil {
		if out, err := json.MarshalIndent(pretty, "", "  "); err == nil {
			fmt.Println(string(out))
			return
		}
	}
	fmt.Println(string(body))
}
