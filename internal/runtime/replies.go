package runtime

import (
	"fmt"
	"strconv"

	"github.com/aretw0/weatherbot/pkg/domain"
)

const (
	replyGreeting       = "Olá! Eu sou o Bot do Clima. Qual cidade você gostaria de consultar?"
	replyAskCityAgain   = "Desculpe, não entendi. Pode me dizer o nome de uma cidade?"
	replyNeedCity       = "Preciso do nome de uma cidade primeiro. Qual é?"
	replyOtherCity      = "Tudo bem — qual cidade você quer consultar então?"
	replyYesOrNo        = "Por favor responda sim ou não."
	replyContinueYesNo  = "Responda sim ou não para continuar."
	replyNextCity       = "Perfeito — me diga outra cidade então."
	replyFarewell       = "Obrigado! Até a próxima!"
	replyRestart        = "Reiniciando conversa. Olá de novo! Quer começar? (sim/não)"
	replyUnknownState   = `Olá! Vamos começar? Diga "oi".`
	replyLookupFailed   = "Houve um erro ao consultar o clima. Deseja tentar novamente? (sim/não)"
	replyConfirmCityFmt = "Você quer saber o clima de %s, certo? (sim/não)"
	replySummaryFmt     = "Em %s, a temperatura atual é %s°C, com sensação de %s°C. Condição: %s. Deseja consultar outra cidade? (sim/não)"
)

func confirmCityReply(city string) string {
	return fmt.Sprintf(replyConfirmCityFmt, city)
}

func summaryReply(city string, w domain.WeatherSnapshot) string {
	return fmt.Sprintf(replySummaryFmt, city, formatDegrees(w.TemperatureC), formatDegrees(w.FeelsLikeC), w.ConditionDescription)
}

// formatDegrees prints the shortest representation, so 18 stays "18" and 18.25 stays "18.25".
func formatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
