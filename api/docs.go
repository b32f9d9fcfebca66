package api

import (
	"github.com/Abraxas-365/mockup2html/docx"
	"github.com/Abraxas-365/mockup2html/project"
	"github.com/Abraxas-365/mockup2html/session"
)

// Docs describes the routes registered by New
func Docs() *docx.RouterDoc {
	return docx.NewRouterDoc(BasePath).
		WithTitle("mockup2html").
		AddEndpoint(docx.NewEndpoint("/project/image", docx.POST).
			WithSummary("Convert a mockup image").
			WithDescription("Archives the image, runs element detection and synthesizes an absolutely positioned HTML page.").
			WithTags("project").
			WithFormFile("file", "UI mockup image, any image type").
			WithResponseDTO(project.UploadResult{})).
		AddEndpoint(docx.NewEndpoint("/project", docx.GET).
			WithSummary("Current session").
			WithTags("project").
			WithResponseDTO(session.Snapshot{})).
		AddEndpoint(docx.NewEndpoint("/project/download", docx.GET).
			WithSummary("Download the generated document").
			WithDescription("Names both files output_<epoch-millis>, archives the text copy and clears the session. With format, returns that one file and keeps the session.").
			WithTags("project").
			WithQueryParam("format", "string", "return one file as an attachment without ending the session", false, "html", "txt").
			WithProduces("text/html", "text/plain", "application/json").
			WithResponseDTO(DownloadResponse{})).
		AddEndpoint(docx.NewEndpoint("/project", docx.DELETE).
			WithSummary("Discard the session image").
			WithTags("project")).
		AddEndpoint(docx.NewEndpoint("/classes", docx.GET).
			WithSummary("Element class to tag table").
			WithTags("markup").
			WithResponseDTO([]ClassMapping{}))
}
