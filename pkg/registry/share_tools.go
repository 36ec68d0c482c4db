package registry

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/misfitdev/spotr-mcp/pkg/schema"
	"github.com/misfitdev/spotr-mcp/pkg/spotr"
)

func (b *Builder) PopulateShareTools(backend spotr.Backend) *Builder {
	return b.addTools(CategorySharing, []toolSpec{
		{
			name:  "generate-share-link",
			title: "Generate share link",
			description: `Generate a link that lets someone outside the coaching app view a program, blueprint, progress analysis or evaluation.
The response carries the share_url, an access_code to give along with it, and the expiry time.`,
			args: []mcp.ToolOption{
				mcp.WithString("entityType",
					mcp.Required(),
					mcp.Description("Kind of entity to share."),
					mcp.Enum("program", "blueprint", "analysis", "evaluation")),
				idArg("entityId", "ID of the entity to share."),
				mcp.WithNumber("expiresInDays",
					mcp.Description(fmt.Sprintf("Days until the link expires (default %d).", spotr.DefaultShareExpiryDays)),
					mcp.Min(1), mcp.Max(365)),
			},
			handler: func(ctx context.Context, raw []byte) (Outcome, error) {
				args, err := parse[schema.ShareLinkArgs](raw)
				if err != nil {
					return Outcome{}, err
				}
				link, err := backend.CreateShareLink(ctx, args.Input())
				if err != nil {
					return Outcome{}, err
				}
				return Outcome{
					Message: fmt.Sprintf("Generated share link! Access code: %s, valid until %s.", link.AccessCode, link.ExpiresAt),
					Payload: link,
				}, nil
			},
		},
	})
}
