/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>

*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mautops/testimonial-gin/internal/container"
	"github.com/mautops/testimonial-gin/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// testimonialFixture 导入文件中的一条评价
type testimonialFixture struct {
	CustomerName  *string `yaml:"customer_name"`
	CustomerEmail *string `yaml:"customer_email"`
	Message       *string `yaml:"message"`
	Rating        *int    `yaml:"rating"`
	Status        *int    `yaml:"status"`
}

type fixtureFile struct {
	Testimonials []testimonialFixture `yaml:"testimonials"`
}

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Import testimonials from a YAML file",
	Long: `Import testimonials from a YAML file.
Every entry goes through the same validation as the admin save form;
invalid entries are reported and skipped.

Example file:

  testimonials:
    - customer_name: Jane Doe
      customer_email: jane@example.com
      message: Great product, highly recommend!
      rating: 5
      status: 1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger := newCommandLogger(cfg)

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open fixture file: %w", err)
		}
		defer f.Close()

		inputs, err := parseFixtures(f)
		if err != nil {
			return err
		}

		ctr, err := container.NewContainer(cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize container: %w", err)
		}
		defer ctr.Close()

		ctx := service.WithRequestInfo(cmd.Context(), "", "", "import")
		imported, failed := importTestimonials(ctx, ctr.TestimonialService(), inputs, logger)
		logger.WithFields(logrus.Fields{
			"imported": imported,
			"failed":   failed,
		}).Info("import finished")

		if failed > 0 {
			return fmt.Errorf("%d of %d testimonials could not be imported", failed, len(inputs))
		}
		return nil
	},
}

// parseFixtures 解析导入文件
func parseFixtures(r io.Reader) ([]service.TestimonialInput, error) {
	var file fixtureFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse fixture file: %w", err)
	}

	inputs := make([]service.TestimonialInput, 0, len(file.Testimonials))
	for _, t := range file.Testimonials {
		inputs = append(inputs, service.TestimonialInput{
			CustomerName:  t.CustomerName,
			CustomerEmail: t.CustomerEmail,
			Message:       t.Message,
			Rating:        t.Rating,
			Status:        t.Status,
		})
	}
	return inputs, nil
}

// importTestimonials 逐条保存, 单条失败不影响其他条目
func importTestimonials(ctx context.Context, svc service.TestimonialService, inputs []service.TestimonialInput, logger logrus.FieldLogger) (imported, failed int) {
	for i := range inputs {
		testimonial, err := svc.Save(ctx, 0, &inputs[i])
		if err != nil {
			failed++
			logger.WithFields(logrus.Fields{
				"entry": i + 1,
				"kind":  service.KindOf(err),
			}).Warn(err.Error())
			continue
		}
		imported++
		logger.WithField("testimonial_id", testimonial.ID).Debug("testimonial imported")
	}
	return imported, failed
}

func init() {
	rootCmd.AddCommand(importCmd)
}
