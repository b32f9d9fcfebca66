// Command lambda converts mockups dropped under images/ in the archive
// bucket. Generated files land under downloads/ and the text copy is
// archived under code/ as usual. The image is already archived, so it is
// never written back under images/.
package main

import (
	"context"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/Abraxas-365/mockup2html/app"
	"github.com/Abraxas-365/mockup2html/archive"
	"github.com/Abraxas-365/mockup2html/fsx"
	"github.com/Abraxas-365/mockup2html/imagesrc"
	"github.com/Abraxas-365/mockup2html/logx"
	"github.com/Abraxas-365/mockup2html/project"
)

const downloadDir = "downloads"

type converter struct {
	svc    *project.Service
	store  fsx.FileSystem
	prefix string
	wait   func(context.Context) error
}

func (cv *converter) handle(ctx context.Context, ev events.S3Event) error {
	for _, record := range ev.Records {
		key := strings.TrimPrefix(record.S3.Object.URLDecodedKey, cv.prefix)
		if !strings.HasPrefix(key, archive.ImageDir+"/") {
			logx.Debug("ignoring %s", key)
			continue
		}

		img, err := imagesrc.ReadFile(ctx, cv.store, key)
		if err != nil {
			return err
		}
		if _, err := cv.svc.Convert(ctx, img); err != nil {
			return err
		}
		res, err := cv.svc.Download(ctx)
		if err != nil {
			return err
		}
		for _, f := range res.Files {
			logx.Info("%s -> %s", key, f.Location)
		}
	}

	// the function may be frozen as soon as the handler returns
	return cv.wait(ctx)
}

// serviceOptions keeps every write outside images/, which triggers the function
func serviceOptions(store fsx.FileSystem) []project.Option {
	return []project.Option{
		project.WithDownloader(project.NewFSDownloader(store, downloadDir)),
		project.WithImageArchive(false),
	}
}

func main() {
	ctx := context.Background()

	settings, err := app.Load("mockup2html.yaml")
	if err != nil {
		logx.Fatal("config: %v", err)
	}

	store, err := app.OpenStore(ctx, settings.Store)
	if err != nil {
		logx.Fatal("store: %v", err)
	}

	c, err := app.BuildWithStore(ctx, settings, store, serviceOptions(store)...)
	if err != nil {
		logx.Fatal("build: %v", err)
	}

	prefix := ""
	if p := strings.Trim(settings.Store.Prefix, "/"); p != "" {
		prefix = p + "/"
	}

	cv := &converter{svc: c.Service, store: c.Store, prefix: prefix, wait: c.Archiver.Wait}
	lambda.Start(cv.handle)
}
