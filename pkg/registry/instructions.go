package registry

const serverInstructions = `Spotr: personal training server for creating and editing training programs.

## Core workflow
- Create a program: fetch-all-movements, draft the program and present it to the user, then create-program.
- Edit a program: fetch-all-programs (when you do not know the program ID) or fetch-program (when you know the ID but not the content), present the edits to the user, then update-program once they confirm.
- Coach a client: read coach://{id}/style and client://{id}/profile, build from a blueprint with create-program-from-blueprint, and review progress with store-progress-analysis.

## Best practices
- Call fetch-all-movements before creating a program so you know which exercises are available.
- Confirm with the user before creating, updating or deleting anything to avoid unnecessary writes.
- Errors name the failing field or status and suggest a next step; follow the hint before retrying.

## Common requests
- "Make me a program for x": create program workflow.
- "Change my current program to be more x": edit program workflow.
- "Share my program": generate-share-link.`
