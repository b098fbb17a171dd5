package ui

// RenderRadarPanel wraps radar content with a titled border.
// The radar itself is drawn by the radar package.
func RenderRadarPanel(width, height int, radarContent, legend string) string {
	content := StylePanelTitle.Render("RADAR // NODE MAP") + "\n" + radarContent + "\n" + legend
	return clampLines(StylePanelBorder.Width(width-2).Height(height-2).Render(content), height)
}
