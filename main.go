package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/davecgh/go-spew/spew"
	"github.com/fsnotify/fsnotify"

	"github.com/ByLCY/quill/dsl"
	"github.com/ByLCY/quill/ir"
	"github.com/ByLCY/quill/layout"
	"github.com/ByLCY/quill/renderer"
	canvasrenderer "github.com/ByLCY/quill/renderer/canvas"
)

func main() {
	input := flag.String("in", "examples/demo.quill", "DSL 文件路径")
	output := flag.String("out", "output/demo.pdf", "PDF 输出路径")
	irPath := flag.String("ir", "", "紧凑 IR 输出路径")
	debugPath := flag.String("debug", "", "布局调试 JSON 输出路径")
	debugBoxes := flag.Bool("debug-boxes", false, "为组合的布局输出调试框")
	dumpAST := flag.Bool("dump-ast", false, "将解析后的文档转储到 stderr 并退出")
	dataJSON := flag.String("data", "", "绑定到 ${path} 占位符的 JSON 数据")
	watch := flag.Bool("watch", false, "监听输入文件并在变更时重建")
	flag.Parse()

	var data []byte
	if *dataJSON != "" {
		data = []byte(*dataJSON)
	}

	if *dumpAST {
		file, err := os.Open(*input)
		if err != nil {
			log.Fatalf("无法打开 DSL 文件 %s: %v", *input, err)
		}
		doc, err := dsl.Parse(file)
		file.Close()
		if err != nil {
			log.Fatalf("解析 DSL 失败: %v", err)
		}
		spew.Fdump(os.Stderr, doc)
		return
	}

	var r renderer.Renderer = canvasrenderer.NewRenderer(filepath.Dir(*input))
	if *watch {
		if err := watchAndRun(*input, *output, *irPath, *debugPath, *debugBoxes, data, r); err != nil {
			log.Fatalf("监听模式失败: %v", err)
		}
		return
	}
	if err := run(*input, *output, *irPath, *debugPath, *debugBoxes, data, r); err != nil {
		log.Fatalf("生成 PDF 失败: %v", err)
	}
	fmt.Printf("已写入 %s\n", *output)
}

// run 串联解析、布局、序列化与渲染。
func run(inputPath, outputPath, irPath, debugPath string, debugBoxes bool, data []byte, r renderer.Renderer) error {
	if r == nil {
		return fmt.Errorf("renderer 不能为空")
	}
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("无法打开 DSL 文件 %s: %w", inputPath, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return fmt.Errorf("解析 DSL 失败: %w", err)
	}

	ts, ok := r.(layout.Typesetter)
	if !ok {
		return fmt.Errorf("renderer 未实现排版接口")
	}

	result, err := layout.Build(doc, data, layout.BuildOptions{
		Typesetter: ts,
		Debug:      layout.DebugOptions{Boxes: debugBoxes},
	})
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}

	if debugPath != "" {
		if err := writeDebug(result, debugPath); err != nil {
			return err
		}
	}
	if irPath != "" {
		if err := writeIR(result, irPath); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	pdfBytes, err := r.Render(result)
	if err != nil {
		return fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	if err := os.WriteFile(outputPath, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("写入 PDF 文件失败: %w", err)
	}

	return nil
}

// watchAndRun 在输入文件变更时重建文档。
func watchAndRun(inputPath, outputPath, irPath, debugPath string, debugBoxes bool, data []byte, r renderer.Renderer) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("创建文件监听失败: %w", err)
	}
	defer watcher.Close()

	// 监听目录而非文件：编辑器保存时会替换文件，使文件级监听失效
	if err := watcher.Add(filepath.Dir(inputPath)); err != nil {
		return fmt.Errorf("监听目录 %s 失败: %w", filepath.Dir(inputPath), err)
	}

	rebuild := func() {
		if err := run(inputPath, outputPath, irPath, debugPath, debugBoxes, data, r); err != nil {
			log.Printf("重建失败: %v", err)
			return
		}
		log.Printf("已写入 %s", outputPath)
	}
	rebuild()

	target := filepath.Clean(inputPath)
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				rebuild()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("监听出错: %v", err)
		}
	}
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}

func writeIR(result *layout.Result, irPath string) error {
	if err := os.MkdirAll(filepath.Dir(irPath), 0o755); err != nil {
		return fmt.Errorf("创建 IR 目录失败: %w", err)
	}
	file, err := os.Create(irPath)
	if err != nil {
		return fmt.Errorf("创建 IR 文件失败: %w", err)
	}
	defer file.Close()
	if err := ir.NewWriter(file).WriteResult(result); err != nil {
		return fmt.Errorf("输出 IR 失败: %w", err)
	}
	return nil
}
